// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package event - notifications emitted by successful ledger calls
package event

import (
	"encoding/binary"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
)

// Event - one notification
//
// Parameters is the binary form published on the message bus:
// accounts as account.Bytes(), identifiers as 32 bytes and
// amounts as 8 byte big endian
type Event interface {
	Command() string
	Parameters() [][]byte
}

// RecordCreated - a record was minted to Owner
type RecordCreated struct {
	Owner *account.Account `json:"owner"`
	Id    digest.Digest    `json:"id"`
}

// RecordTransferred - ownership of a record moved
type RecordTransferred struct {
	From *account.Account `json:"from"`
	To   *account.Account `json:"to"`
	Id   digest.Digest    `json:"id"`
}

// TokenIssued - Account received the total supply as free balance
type TokenIssued struct {
	Account *account.Account `json:"account"`
	Amount  uint64           `json:"amount"`
}

// BalanceSet - both buckets of Account were overwritten
type BalanceSet struct {
	Account  *account.Account `json:"account"`
	Free     uint64           `json:"free"`
	Reserved uint64           `json:"reserved"`
}

// TokenTransferred - free balance moved between accounts
type TokenTransferred struct {
	From   *account.Account `json:"from"`
	To     *account.Account `json:"to"`
	Amount uint64           `json:"amount"`
}

// TokenReserved - free balance moved to reserved
type TokenReserved struct {
	Account *account.Account `json:"account"`
	Amount  uint64           `json:"amount"`
}

// TokenUnreserved - reserved balance moved back to free
type TokenUnreserved struct {
	Account *account.Account `json:"account"`
	Amount  uint64           `json:"amount"`
}

// Command - bus command names
func (RecordCreated) Command() string     { return "created" }
func (RecordTransferred) Command() string { return "transferred" }
func (TokenIssued) Command() string       { return "issued" }
func (BalanceSet) Command() string        { return "balance" }
func (TokenTransferred) Command() string  { return "payment" }
func (TokenReserved) Command() string     { return "reserved" }
func (TokenUnreserved) Command() string   { return "unreserved" }

// Parameters - binary fields in declaration order
func (e RecordCreated) Parameters() [][]byte {
	return [][]byte{e.Owner.Bytes(), e.Id[:]}
}

func (e RecordTransferred) Parameters() [][]byte {
	return [][]byte{e.From.Bytes(), e.To.Bytes(), e.Id[:]}
}

func (e TokenIssued) Parameters() [][]byte {
	return [][]byte{e.Account.Bytes(), bn(e.Amount)}
}

func (e BalanceSet) Parameters() [][]byte {
	return [][]byte{e.Account.Bytes(), bn(e.Free), bn(e.Reserved)}
}

func (e TokenTransferred) Parameters() [][]byte {
	return [][]byte{e.From.Bytes(), e.To.Bytes(), bn(e.Amount)}
}

func (e TokenReserved) Parameters() [][]byte {
	return [][]byte{e.Account.Bytes(), bn(e.Amount)}
}

func (e TokenUnreserved) Parameters() [][]byte {
	return [][]byte{e.Account.Bytes(), bn(e.Amount)}
}

func bn(n uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	return buffer
}
