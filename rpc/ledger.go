// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/dispatch"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/ledger"
	"github.com/bitmark-inc/hashledger/registry"
	"github.com/bitmark-inc/hashledger/spool"
	"github.com/bitmark-inc/hashledger/storage"
)

// Ledger
// ------

const (
	rateLimitLedger = 200
	rateBurstLedger = 100
)

// Ledger - type for the RPC
type Ledger struct {
	Log     *logger.L
	Limiter *rate.Limiter
	DB      *storage.Database
	Ledger  *ledger.Ledger
}

// NewLedger - balance queries against db
func NewLedger(log *logger.L, db *storage.Database) *Ledger {
	return &Ledger{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitLedger, rateBurstLedger),
		DB:      db,
		Ledger:  ledger.New(),
	}
}

// AccountArguments - a single account
type AccountArguments struct {
	Account *account.Account `json:"account"`
}

// BalanceReply - both balances of an account
type BalanceReply struct {
	Account  *account.Account `json:"account"`
	Free     uint64           `json:"free"`
	Reserved uint64           `json:"reserved"`
}

// Balance - free and reserved balance of an account
func (l *Ledger) Balance(arguments *AccountArguments, reply *BalanceReply) error {
	if err := limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments.Account {
		return fault.ErrMissingAccount
	}

	reply.Account = arguments.Account
	reply.Free = l.Ledger.FreeBalance(l.DB, arguments.Account)
	reply.Reserved = l.Ledger.ReservedBalance(l.DB, arguments.Account)
	return nil
}

// SequenceReply - the sequence the next signed call from an account
// must carry
type SequenceReply struct {
	Account  *account.Account `json:"account"`
	Sequence uint64           `json:"sequence"`
}

// Sequence - next unused call sequence of an account
func (l *Ledger) Sequence(arguments *AccountArguments, reply *SequenceReply) error {
	if err := limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments.Account {
		return fault.ErrMissingAccount
	}

	reply.Account = arguments.Account
	reply.Sequence = dispatch.Sequence(l.DB, arguments.Account)
	return nil
}

// SupplyArguments - none
type SupplyArguments struct{}

// SupplyReply - ledger totals
type SupplyReply struct {
	Height      uint64           `json:"height"`
	TokenOwner  *account.Account `json:"token_owner,omitempty"`
	TotalSupply uint64           `json:"total_supply"`
	Records     uint64           `json:"records"`
}

// Supply - token owner, total supply and record count
func (l *Ledger) Supply(arguments *SupplyArguments, reply *SupplyReply) error {
	if err := limit(l.Limiter); nil != err {
		return err
	}

	reply.Height = spool.Height(l.DB)
	reply.TokenOwner, _ = l.Ledger.TokenOwner(l.DB)
	reply.TotalSupply = l.Ledger.TotalSupply(l.DB)
	reply.Records = registry.New().Count(l.DB)
	return nil
}
