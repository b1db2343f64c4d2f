// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - fungible token balances
//
// each account has a free and a reserved bucket; only the token owner
// may issue, overwrite balances or move funds between buckets
package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/storage"
	"github.com/bitmark-inc/hashledger/util"
)

// scalar pools use the empty key
var scalarKey = []byte{}

// Ledger - operations over the balance pools
type Ledger struct {
	log *logger.L
}

// New - ledger over the standard pools
func New() *Ledger {
	return &Ledger{
		log: logger.New("ledger"),
	}
}

// Initialise - record the token owner and the initial supply
func (l *Ledger) Initialise(trx storage.Transaction, tokenOwner *account.Account, totalSupply uint64) error {
	if trx.Has(storage.Pool.TokenOwner, scalarKey) {
		return fault.ErrAlreadyInitialised
	}
	trx.Put(storage.Pool.TokenOwner, scalarKey, tokenOwner.Bytes())
	trx.PutN(storage.Pool.TotalSupply, scalarKey, totalSupply)
	l.log.Infof("token owner: %s  total supply: %d", tokenOwner, totalSupply)
	return nil
}

// TokenOwner - the privileged account, false before genesis
func (l *Ledger) TokenOwner(r storage.Reader) (*account.Account, bool) {
	ownerBytes := r.Get(storage.Pool.TokenOwner, scalarKey)
	if nil == ownerBytes {
		return nil, false
	}
	owner, err := account.AccountFromBytes(ownerBytes)
	if nil != err {
		logger.Panicf("ledger: token owner: %x  error: %s", ownerBytes, err)
	}
	return owner, true
}

// TotalSupply - tracked sum of all balances
func (l *Ledger) TotalSupply(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.TotalSupply, scalarKey)
	return n
}

// FreeBalance - transferable balance, zero if absent
func (l *Ledger) FreeBalance(r storage.Reader, acc *account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.FreeBalance, acc.Bytes())
	return n
}

// ReservedBalance - reserved balance, zero if absent
func (l *Ledger) ReservedBalance(r storage.Reader, acc *account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.ReservedBalance, acc.Bytes())
	return n
}

func (l *Ledger) requireOwner(r storage.Reader, caller *account.Account) error {
	owner, found := l.TokenOwner(r)
	if !found {
		return fault.ErrNotInitialised
	}
	if !owner.Equal(caller) {
		return fault.ErrOnlyOwnerCanOperate
	}
	return nil
}

// Issue - set the caller's free balance to the total supply
//
// may be repeated; each call overwrites the free balance again
func (l *Ledger) Issue(trx storage.Transaction, caller *account.Account, sink event.Sink) error {
	if err := l.requireOwner(trx, caller); nil != err {
		return err
	}

	supply := l.TotalSupply(trx)
	trx.PutN(storage.Pool.FreeBalance, caller.Bytes(), supply)

	sink.Deposit(event.TokenIssued{Account: caller, Amount: supply})
	return nil
}

// SetBalance - overwrite both buckets and adjust the supply by the difference
func (l *Ledger) SetBalance(trx storage.Transaction, caller *account.Account, acc *account.Account, newFree uint64, newReserved uint64, sink event.Sink) error {
	if err := l.requireOwner(trx, caller); nil != err {
		return err
	}

	oldTotal, ok := util.CheckedAdd(l.FreeBalance(trx, acc), l.ReservedBalance(trx, acc))
	if !ok {
		return fault.ErrOverflowHappens
	}
	newTotal, ok := util.CheckedAdd(newFree, newReserved)
	if !ok {
		return fault.ErrOverflowHappens
	}

	supply := l.TotalSupply(trx)
	if oldTotal <= newTotal {
		supply, ok = util.CheckedAdd(supply, newTotal-oldTotal)
		if !ok {
			return fault.ErrOverflowHappens
		}
	} else {
		supply, ok = util.CheckedSub(supply, oldTotal-newTotal)
		if !ok {
			return fault.ErrUnderflowHappens
		}
	}

	key := acc.Bytes()
	trx.PutN(storage.Pool.TotalSupply, scalarKey, supply)
	trx.PutN(storage.Pool.FreeBalance, key, newFree)
	trx.PutN(storage.Pool.ReservedBalance, key, newReserved)

	sink.Deposit(event.BalanceSet{Account: acc, Free: newFree, Reserved: newReserved})
	return nil
}

// Transfer - move free balance between accounts
//
// transferring to oneself or transferring nothing succeeds without effect
func (l *Ledger) Transfer(trx storage.Transaction, from *account.Account, to *account.Account, amount uint64, sink event.Sink) error {
	if from.Equal(to) || 0 == amount {
		return nil
	}

	fromKey := from.Bytes()
	fromBalance, found := trx.GetN(storage.Pool.FreeBalance, fromKey)
	if !found {
		return fault.ErrAccountNotExist
	}
	if fromBalance < amount {
		return fault.ErrAmountTooLow
	}

	toKey := to.Bytes()
	toBalance, _ := trx.GetN(storage.Pool.FreeBalance, toKey)
	toBalance, ok := util.CheckedAdd(toBalance, amount)
	if !ok {
		return fault.ErrOverflowHappens
	}
	fromBalance, ok = util.CheckedSub(fromBalance, amount)
	if !ok {
		return fault.ErrUnderflowHappens
	}

	trx.PutN(storage.Pool.FreeBalance, toKey, toBalance)
	trx.PutN(storage.Pool.FreeBalance, fromKey, fromBalance)

	sink.Deposit(event.TokenTransferred{From: from, To: to, Amount: amount})
	return nil
}

// Reserve - move amount from free to reserved
func (l *Ledger) Reserve(trx storage.Transaction, caller *account.Account, acc *account.Account, amount uint64, sink event.Sink) error {
	if err := l.requireOwner(trx, caller); nil != err {
		return err
	}
	if 0 == amount {
		return nil
	}

	free, reserved, err := move(l.FreeBalance(trx, acc), l.ReservedBalance(trx, acc), amount)
	if nil != err {
		return err
	}

	key := acc.Bytes()
	trx.PutN(storage.Pool.FreeBalance, key, free)
	trx.PutN(storage.Pool.ReservedBalance, key, reserved)

	sink.Deposit(event.TokenReserved{Account: acc, Amount: amount})
	return nil
}

// Unreserve - move amount from reserved back to free
func (l *Ledger) Unreserve(trx storage.Transaction, caller *account.Account, acc *account.Account, amount uint64, sink event.Sink) error {
	if err := l.requireOwner(trx, caller); nil != err {
		return err
	}
	if 0 == amount {
		return nil
	}

	reserved, free, err := move(l.ReservedBalance(trx, acc), l.FreeBalance(trx, acc), amount)
	if nil != err {
		return err
	}

	key := acc.Bytes()
	trx.PutN(storage.Pool.FreeBalance, key, free)
	trx.PutN(storage.Pool.ReservedBalance, key, reserved)

	sink.Deposit(event.TokenUnreserved{Account: acc, Amount: amount})
	return nil
}

// take amount out of source and add it to destination
func move(source uint64, destination uint64, amount uint64) (uint64, uint64, error) {
	if source < amount {
		return 0, 0, fault.ErrAmountTooLow
	}
	source, ok := util.CheckedSub(source, amount)
	if !ok {
		return 0, 0, fault.ErrUnderflowHappens
	}
	destination, ok = util.CheckedAdd(destination, amount)
	if !ok {
		return 0, 0, fault.ErrOverflowHappens
	}
	return source, destination, nil
}
