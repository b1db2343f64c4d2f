// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - uniquely owned hash power contract records
//
// every record appears once in the global list and once in its owner's
// list; transfers move it between owner lists by swap-with-last removal
package registry

import (
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/denselist"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/storage"
)

// the global list has a single partition
var globalPartition = []byte{}

// Registry - operations over the record pools
type Registry struct {
	all   denselist.List
	owned denselist.List
	log   *logger.L
}

// New - registry over the standard pools
func New() *Registry {
	return &Registry{
		all: denselist.List{
			Array:    storage.Pool.AllRecords,
			Index:    storage.Pool.AllRecordsIndex,
			Counts:   storage.Pool.AllRecordsCount,
			Overflow: fault.ErrCountOverflow,
		},
		owned: denselist.List{
			Array:    storage.Pool.OwnedRecords,
			Index:    storage.Pool.OwnedIndex,
			Counts:   storage.Pool.OwnedCount,
			Overflow: fault.ErrOwnedCountOverflow,
		},
		log: logger.New("registry"),
	}
}

// Create - store a new record owned by owner
func (reg *Registry) Create(trx storage.Transaction, owner *account.Account, record *Record, sink event.Sink) error {
	id := record.Id[:]
	if trx.Has(storage.Pool.RecordOwner, id) {
		return fault.ErrDuplicateIdentifier
	}
	if math.MaxUint64 == reg.all.Count(trx, globalPartition) {
		return fault.ErrCountOverflow
	}
	ownerBytes := owner.Bytes()
	if math.MaxUint64 == reg.owned.Count(trx, ownerBytes) {
		return fault.ErrOwnedCountOverflow
	}

	trx.Put(storage.Pool.Records, id, record.Pack())
	trx.Put(storage.Pool.RecordOwner, id, ownerBytes)

	if _, err := reg.all.Append(trx, globalPartition, id); nil != err {
		return err
	}
	if _, err := reg.owned.Append(trx, ownerBytes, id); nil != err {
		return err
	}

	reg.log.Debugf("create: %s  owner: %s", record.Id, owner)
	sink.Deposit(event.RecordCreated{Owner: owner, Id: record.Id})
	return nil
}

// Transfer - move a record from its current owner to another account
//
// from must be the current owner: the dispatcher authorises the caller
// before any registry write
func (reg *Registry) Transfer(trx storage.Transaction, from *account.Account, to *account.Account, id digest.Digest, sink event.Sink) error {
	if from.Equal(to) {
		return fault.ErrSelfTransfer
	}

	if !trx.Has(storage.Pool.RecordOwner, id[:]) {
		return fault.ErrRecordNotFound
	}

	fromBytes := from.Bytes()
	toBytes := to.Bytes()
	if 0 == reg.owned.Count(trx, fromBytes) {
		return fault.ErrCountUnderflow
	}
	if math.MaxUint64 == reg.owned.Count(trx, toBytes) {
		return fault.ErrOwnedCountOverflow
	}

	trx.Put(storage.Pool.RecordOwner, id[:], toBytes)

	if err := reg.owned.Remove(trx, fromBytes, id[:]); nil != err {
		return err
	}
	if _, err := reg.owned.Append(trx, toBytes, id[:]); nil != err {
		return err
	}

	reg.log.Debugf("transfer: %s  from: %s  to: %s", id, from, to)
	sink.Deposit(event.RecordTransferred{From: from, To: to, Id: id})
	return nil
}

// Record - fetch a record by identifier
func (reg *Registry) Record(r storage.Reader, id digest.Digest) (*Record, error) {
	packed := r.Get(storage.Pool.Records, id[:])
	if nil == packed {
		return nil, fault.ErrRecordNotFound
	}
	return Unpack(packed)
}

// OwnerOf - current owner, false if no such record
func (reg *Registry) OwnerOf(r storage.Reader, id digest.Digest) (*account.Account, bool) {
	ownerBytes := r.Get(storage.Pool.RecordOwner, id[:])
	if nil == ownerBytes {
		return nil, false
	}
	owner, err := account.AccountFromBytes(ownerBytes)
	if nil != err {
		logger.Panicf("registry: record: %s  owner: %x  error: %s", id, ownerBytes, err)
	}
	return owner, true
}

// Count - number of records ever created
func (reg *Registry) Count(r storage.Reader) uint64 {
	return reg.all.Count(r, globalPartition)
}

// RecordAt - identifier at a global position
func (reg *Registry) RecordAt(r storage.Reader, position uint64) (digest.Digest, bool) {
	return toDigest(reg.all.At(r, globalPartition, position))
}

// IndexOf - global position of a record
func (reg *Registry) IndexOf(r storage.Reader, id digest.Digest) (uint64, bool) {
	return reg.all.PositionOf(r, id[:])
}

// OwnedCount - number of records held by owner
func (reg *Registry) OwnedCount(r storage.Reader, owner *account.Account) uint64 {
	return reg.owned.Count(r, owner.Bytes())
}

// OwnedRecordAt - identifier at a position in the owner's list
func (reg *Registry) OwnedRecordAt(r storage.Reader, owner *account.Account, position uint64) (digest.Digest, bool) {
	return toDigest(reg.owned.At(r, owner.Bytes(), position))
}

// OwnedIndexOf - position of a record in its owner's list
func (reg *Registry) OwnedIndexOf(r storage.Reader, id digest.Digest) (uint64, bool) {
	return reg.owned.PositionOf(r, id[:])
}

// Nonce - value mixed into the next record identifier
func (reg *Registry) Nonce(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.Nonce, []byte{})
	return n
}

// IncrementNonce - advance the nonce after a successful create
func (reg *Registry) IncrementNonce(trx storage.Transaction) error {
	n := reg.Nonce(trx)
	if math.MaxUint64 == n {
		return fault.ErrCountOverflow
	}
	trx.PutN(storage.Pool.Nonce, []byte{}, n+1)
	return nil
}

func toDigest(item []byte, found bool) (digest.Digest, bool) {
	var d digest.Digest
	if !found {
		return d, false
	}
	if err := digest.FromBytes(&d, item); nil != err {
		logger.Panicf("registry: invalid identifier: %x  error: %s", item, err)
	}
	return d, true
}
