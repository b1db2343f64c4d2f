// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
)

// Reader - point lookups on pool data
type Reader interface {
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
}

// Transaction - staged writes that become visible together on Commit
//
// reads through a transaction observe its own staged writes
type Transaction interface {
	Reader
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Commit() error
	Abort()
	InUse() bool
}

type transaction struct {
	access Access
}

func newTransaction(access Access) Transaction {
	return &transaction{
		access: access,
	}
}

func (t *transaction) Put(p *PoolHandle, key []byte, value []byte) {
	t.access.Put(p.prefixKey(key), value)
}

func (t *transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	t.access.Put(p.prefixKey(key), encodeN(value))
}

func (t *transaction) Delete(p *PoolHandle, key []byte) {
	t.access.Delete(p.prefixKey(key))
}

// Get - the returned slice must not be modified
func (t *transaction) Get(p *PoolHandle, key []byte) []byte {
	value, err := t.access.Get(p.prefixKey(key))
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("transaction.Get", err)
	return value
}

func (t *transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	buffer := t.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	return decodeN(key, buffer), true
}

func (t *transaction) Has(p *PoolHandle, key []byte) bool {
	found, err := t.access.Has(p.prefixKey(key))
	logger.PanicIfError("transaction.Has", err)
	return found
}

func (t *transaction) Commit() error {
	return t.access.Commit()
}

func (t *transaction) Abort() {
	t.access.Abort()
}

func (t *transaction) InUse() bool {
	return t.access.InUse()
}
