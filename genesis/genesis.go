// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - initial ledger state
package genesis

import (
	"bytes"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/ledger"
	"github.com/bitmark-inc/hashledger/storage"
	"github.com/bitmark-inc/hashledger/util"
)

var genesisKey = []byte{}

// Configuration - token owner and supply at chain start
type Configuration struct {
	TokenOwner  string `gluamapper:"token_owner" json:"token_owner"`
	TotalSupply uint64 `gluamapper:"total_supply" json:"total_supply"`
}

func digestOf(owner *account.Account, totalSupply uint64) digest.Digest {
	packed := util.AppendBytes(nil, owner.Bytes())
	packed = append(packed, util.ToVarint64(totalSupply)...)
	return digest.NewDigest(packed)
}

// Apply - initialise an empty database
//
// returns true if the genesis was written, false if the same genesis
// was already present
func Apply(db *storage.Database, conf *Configuration) (bool, error) {
	log := logger.New("genesis")

	owner, err := account.AccountFromBase58(conf.TokenOwner)
	if nil != err {
		log.Errorf("token owner: %q  error: %s", conf.TokenOwner, err)
		return false, err
	}

	return apply(db, log, owner, conf.TotalSupply)
}

// ApplyAccount - as Apply, for an already decoded owner
func ApplyAccount(db *storage.Database, owner *account.Account, totalSupply uint64) (bool, error) {
	return apply(db, logger.New("genesis"), owner, totalSupply)
}

func apply(db *storage.Database, log *logger.L, owner *account.Account, totalSupply uint64) (bool, error) {
	d := digestOf(owner, totalSupply)

	trx, err := db.Begin()
	if nil != err {
		return false, err
	}

	if existing := trx.Get(storage.Pool.Genesis, genesisKey); nil != existing {
		trx.Abort()
		if !bytes.Equal(d[:], existing) {
			log.Criticalf("genesis: %v  does not match database: %x", d, existing)
			return false, fault.ErrGenesisMismatch
		}
		log.Debugf("genesis: %v  already applied", d)
		return false, nil
	}

	err = ledger.New().Initialise(trx, owner, totalSupply)
	if nil != err {
		trx.Abort()
		return false, err
	}
	trx.Put(storage.Pool.Genesis, genesisKey, d[:])

	err = trx.Commit()
	if nil != err {
		return false, err
	}

	log.Infof("applied genesis: %v", d)
	return true, nil
}
