// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/fixtures"
	"github.com/bitmark-inc/hashledger/genesis"
	"github.com/bitmark-inc/hashledger/ledger"
	"github.com/bitmark-inc/hashledger/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestApply(t *testing.T) {
	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	defer db.Close()

	conf := &genesis.Configuration{
		TokenOwner:  "3MvykBZzN",
		TotalSupply: 21000000,
	}

	applied, err := genesis.Apply(db, conf)
	assert.Nil(t, err, "apply")
	assert.True(t, applied, "not applied")

	l := ledger.New()
	owner, found := l.TokenOwner(db)
	assert.True(t, found, "owner not stored")
	assert.Equal(t, conf.TokenOwner, owner.String(), "owner")
	assert.Equal(t, conf.TotalSupply, l.TotalSupply(db), "supply")

	applied, err = genesis.Apply(db, conf)
	assert.Nil(t, err, "re-apply")
	assert.False(t, applied, "applied twice")

	_, err = genesis.Apply(db, &genesis.Configuration{
		TokenOwner:  conf.TokenOwner,
		TotalSupply: 5,
	})
	assert.Equal(t, fault.ErrGenesisMismatch, err, "different supply")
	assert.Equal(t, conf.TotalSupply, l.TotalSupply(db), "supply changed")
}

func TestApplyAccount(t *testing.T) {
	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	defer db.Close()

	applied, err := genesis.ApplyAccount(db, account.NewNothing(1), 100)
	assert.Nil(t, err, "apply")
	assert.True(t, applied, "not applied")

	_, err = genesis.ApplyAccount(db, account.NewNothing(2), 100)
	assert.Equal(t, fault.ErrGenesisMismatch, err, "different owner")
}

func TestApplyBadOwner(t *testing.T) {
	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	defer db.Close()

	_, err = genesis.Apply(db, &genesis.Configuration{TokenOwner: "not-base58!"})
	assert.NotNil(t, err, "bad owner accepted")
	assert.False(t, db.Has(storage.Pool.Genesis, []byte{}), "genesis written")
}
