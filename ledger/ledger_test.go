// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"encoding/binary"
	"math"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/event/mocks"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/fixtures"
	"github.com/bitmark-inc/hashledger/ledger"
	"github.com/bitmark-inc/hashledger/storage"
)

const initialSupply = 21000000

var (
	tokenOwner = account.NewNothing(1)
	account2   = account.NewNothing(2)
	account5   = account.NewNothing(5)
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setup(t *testing.T) (*storage.Database, *ledger.Ledger) {
	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	l := ledger.New()
	run(t, db, func(trx storage.Transaction) error {
		return l.Initialise(trx, tokenOwner, initialSupply)
	})
	return db, l
}

// run f in its own transaction, commit on success and abort on error
func run(t *testing.T, db *storage.Database, f func(trx storage.Transaction) error) error {
	trx, err := db.Begin()
	if !assert.Nil(t, err, "begin") {
		t.FailNow()
	}
	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	assert.Nil(t, trx.Commit(), "commit")
	return nil
}

// sum of every free and reserved balance
func holdings(t *testing.T, db *storage.Database) uint64 {
	total := uint64(0)
	for _, p := range []*storage.PoolHandle{storage.Pool.FreeBalance, storage.Pool.ReservedBalance} {
		err := db.Map(p, func(key []byte, value []byte) error {
			total += binary.BigEndian.Uint64(value)
			return nil
		})
		assert.Nil(t, err, "map")
	}
	return total
}

func TestInitialise(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	owner, found := l.TokenOwner(db)
	assert.True(t, found, "owner not found")
	assert.True(t, tokenOwner.Equal(owner), "wrong owner")
	assert.Equal(t, uint64(initialSupply), l.TotalSupply(db), "wrong supply")

	err := run(t, db, func(trx storage.Transaction) error {
		return l.Initialise(trx, account2, 5)
	})
	assert.Equal(t, fault.ErrAlreadyInitialised, err, "second initialise")
	assert.Equal(t, uint64(initialSupply), l.TotalSupply(db), "supply changed")
}

func TestNotInitialised(t *testing.T) {
	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	defer db.Close()

	l := ledger.New()
	_, found := l.TokenOwner(db)
	assert.False(t, found, "owner found")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Issue(trx, tokenOwner, event.Discard{})
	})
	assert.Equal(t, fault.ErrNotInitialised, err, "issue")
}

func TestIssue(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.Issue(trx, account2, event.Discard{})
	})
	assert.Equal(t, fault.ErrOnlyOwnerCanOperate, err, "non-owner issue")
	assert.Equal(t, uint64(0), l.FreeBalance(db, account2), "balance changed")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Issue(trx, tokenOwner, event.Discard{})
	})
	assert.Nil(t, err, "issue")
	assert.Equal(t, uint64(initialSupply), l.FreeBalance(db, tokenOwner), "owner balance")
	assert.Equal(t, uint64(initialSupply), l.TotalSupply(db), "supply")
	assert.Equal(t, uint64(initialSupply), holdings(t, db), "holdings")

	// repeated issue overwrites rather than accumulates
	err = run(t, db, func(trx storage.Transaction) error {
		return l.Issue(trx, tokenOwner, event.Discard{})
	})
	assert.Nil(t, err, "re-issue")
	assert.Equal(t, uint64(initialSupply), l.FreeBalance(db, tokenOwner), "owner balance after re-issue")
}

func TestSetBalanceOnlyOwner(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, account2, account5, 1000, 2000, event.Discard{})
	})
	assert.Equal(t, fault.ErrOnlyOwnerCanOperate, err, "non-owner set balance")
	assert.Equal(t, uint64(0), l.FreeBalance(db, account5), "free changed")
	assert.Equal(t, uint64(initialSupply), l.TotalSupply(db), "supply changed")
}

func TestSetBalanceTotalSupply(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	steps := []struct {
		acc      *account.Account
		free     uint64
		reserved uint64
		supply   uint64
	}{
		{account5, 1000000, 2000000, 24000000},
		{account2, 100000, 200000, 24300000},
		{account5, 0, 4000000, 25300000},
		{account5, 1000000, 2000000, 24300000},
	}

	for i, s := range steps {
		err := run(t, db, func(trx storage.Transaction) error {
			return l.SetBalance(trx, tokenOwner, s.acc, s.free, s.reserved, event.Discard{})
		})
		assert.Nil(t, err, "%d: set balance", i)
		assert.Equal(t, s.free, l.FreeBalance(db, s.acc), "%d: free", i)
		assert.Equal(t, s.reserved, l.ReservedBalance(db, s.acc), "%d: reserved", i)
		assert.Equal(t, s.supply, l.TotalSupply(db), "%d: supply", i)
	}
}

func TestSetBalanceOverflow(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, math.MaxUint64, 1, event.Discard{})
	})
	assert.Equal(t, fault.ErrOverflowHappens, err, "bucket overflow")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, math.MaxUint64-initialSupply+1, 0, event.Discard{})
	})
	assert.Equal(t, fault.ErrOverflowHappens, err, "supply overflow")
	assert.Equal(t, uint64(initialSupply), l.TotalSupply(db), "supply changed")
}

func TestTransfer(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, 1000, 2000, event.Discard{})
	})
	assert.Nil(t, err, "set balance")
	before := holdings(t, db)

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 1001, event.Discard{})
	})
	assert.Equal(t, fault.ErrAmountTooLow, err, "amount not enough")
	assert.Equal(t, uint64(1000), l.FreeBalance(db, account5), "sender changed")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 600, event.Discard{})
	})
	assert.Nil(t, err, "transfer")
	assert.Equal(t, uint64(400), l.FreeBalance(db, account5), "sender")
	assert.Equal(t, uint64(600), l.FreeBalance(db, account2), "receiver")
	assert.Equal(t, uint64(2000), l.ReservedBalance(db, account5), "reserved moved")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 400, event.Discard{})
	})
	assert.Nil(t, err, "transfer all")
	assert.Equal(t, uint64(0), l.FreeBalance(db, account5), "sender")
	assert.Equal(t, uint64(1000), l.FreeBalance(db, account2), "receiver")

	assert.Equal(t, before, holdings(t, db), "holdings not conserved")
	assert.Equal(t, uint64(initialSupply+3000), l.TotalSupply(db), "supply")
}

func TestTransferNoOp(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no deposits expected
	sink := mocks.NewMockSink(ctl)

	err := run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account5, 10, sink)
	})
	assert.Nil(t, err, "self transfer")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 0, sink)
	})
	assert.Nil(t, err, "zero transfer")
	assert.False(t, db.Has(storage.Pool.FreeBalance, account2.Bytes()), "receiver entry created")
}

func TestTransferAccountNotExist(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 1, event.Discard{})
	})
	assert.Equal(t, fault.ErrAccountNotExist, err, "missing sender")
}

func TestSupplyLimit(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account2, math.MaxUint64-initialSupply-10, 0, event.Discard{})
	})
	assert.Nil(t, err, "set receiver")
	err = run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, 10, 0, event.Discard{})
	})
	assert.Nil(t, err, "set sender")
	assert.Equal(t, uint64(math.MaxUint64), l.TotalSupply(db), "supply")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, 11, 0, event.Discard{})
	})
	assert.Equal(t, fault.ErrOverflowHappens, err, "supply at limit")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Transfer(trx, account5, account2, 10, event.Discard{})
	})
	assert.Nil(t, err, "transfer up to limit")
	assert.Equal(t, uint64(math.MaxUint64-initialSupply), l.FreeBalance(db, account2), "receiver")
	assert.Equal(t, uint64(0), l.FreeBalance(db, account5), "sender")
}

func TestReserveUnreserve(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.SetBalance(trx, tokenOwner, account5, 1000, 2000, event.Discard{})
	})
	assert.Nil(t, err, "set balance")
	supply := l.TotalSupply(db)

	steps := []struct {
		reserve  bool
		amount   uint64
		err      error
		free     uint64
		reserved uint64
	}{
		{true, 1001, fault.ErrAmountTooLow, 1000, 2000},
		{true, 401, nil, 599, 2401},
		{true, 599, nil, 0, 3000},
		{true, 1, fault.ErrAmountTooLow, 0, 3000},
		{false, 3001, fault.ErrAmountTooLow, 0, 3000},
		{false, 2000, nil, 2000, 1000},
		{false, 1000, nil, 3000, 0},
		{false, 1, fault.ErrAmountTooLow, 3000, 0},
	}

	for i, s := range steps {
		err := run(t, db, func(trx storage.Transaction) error {
			if s.reserve {
				return l.Reserve(trx, tokenOwner, account5, s.amount, event.Discard{})
			}
			return l.Unreserve(trx, tokenOwner, account5, s.amount, event.Discard{})
		})
		assert.Equal(t, s.err, err, "%d: error", i)
		assert.Equal(t, s.free, l.FreeBalance(db, account5), "%d: free", i)
		assert.Equal(t, s.reserved, l.ReservedBalance(db, account5), "%d: reserved", i)
		assert.Equal(t, supply, l.TotalSupply(db), "%d: supply", i)
	}
}

func TestReserveOnlyOwner(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	err := run(t, db, func(trx storage.Transaction) error {
		return l.Reserve(trx, account5, account5, 1, event.Discard{})
	})
	assert.Equal(t, fault.ErrOnlyOwnerCanOperate, err, "reserve")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Unreserve(trx, account5, account5, 1, event.Discard{})
	})
	assert.Equal(t, fault.ErrOnlyOwnerCanOperate, err, "unreserve")

	err = run(t, db, func(trx storage.Transaction) error {
		return l.Reserve(trx, tokenOwner, account5, 0, event.Discard{})
	})
	assert.Nil(t, err, "zero reserve")
}

func TestEvents(t *testing.T) {
	db, l := setup(t)
	defer db.Close()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	sink := mocks.NewMockSink(ctl)
	gomock.InOrder(
		sink.EXPECT().Deposit(event.TokenIssued{Account: tokenOwner, Amount: initialSupply}).Times(1),
		sink.EXPECT().Deposit(event.BalanceSet{Account: account5, Free: 1000, Reserved: 2000}).Times(1),
		sink.EXPECT().Deposit(event.TokenTransferred{From: account5, To: account2, Amount: 600}).Times(1),
		sink.EXPECT().Deposit(event.TokenReserved{Account: account5, Amount: 100}).Times(1),
		sink.EXPECT().Deposit(event.TokenUnreserved{Account: account5, Amount: 50}).Times(1),
	)

	err := run(t, db, func(trx storage.Transaction) error {
		if err := l.Issue(trx, tokenOwner, sink); nil != err {
			return err
		}
		if err := l.SetBalance(trx, tokenOwner, account5, 1000, 2000, sink); nil != err {
			return err
		}
		if err := l.Transfer(trx, account5, account2, 600, sink); nil != err {
			return err
		}
		if err := l.Reserve(trx, tokenOwner, account5, 100, sink); nil != err {
			return err
		}
		return l.Unreserve(trx, tokenOwner, account5, 50, sink)
	})
	assert.Nil(t, err, "calls")
}
