// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/storage/mocks"
)

func setupTestTransaction(t *testing.T) (Transaction, *mocks.MockAccess, *gomock.Controller) {
	ctl := gomock.NewController(t)
	mock := mocks.NewMockAccess(ctl)
	return newTransaction(mock), mock, ctl
}

func TestTransactionPutPrefixesKey(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Put([]byte("Rkey"), []byte("value")).Times(1)
	mock.EXPECT().Put([]byte("Ckey"), []byte{0, 0, 0, 0, 0, 0, 1, 2}).Times(1)
	mock.EXPECT().Delete([]byte("Okey")).Times(1)

	trx.Put(Pool.Records, []byte("key"), []byte("value"))
	trx.PutN(Pool.AllRecordsCount, []byte("key"), 258)
	trx.Delete(Pool.RecordOwner, []byte("key"))
}

func TestTransactionGet(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Get([]byte("Fabsent")).Return(nil, leveldb.ErrNotFound).Times(2)
	mock.EXPECT().Get([]byte("Fpresent")).Return([]byte{0, 0, 0, 0, 0, 0, 0, 42}, nil).Times(2)
	mock.EXPECT().Has([]byte("Fpresent")).Return(true, nil).Times(1)

	assert.Nil(t, trx.Get(Pool.FreeBalance, []byte("absent")), "absent key returned data")

	n, found := trx.GetN(Pool.FreeBalance, []byte("absent"))
	assert.False(t, found, "absent key found")
	assert.Equal(t, uint64(0), n, "absent value")

	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 42}, trx.Get(Pool.FreeBalance, []byte("present")), "wrong data")

	n, found = trx.GetN(Pool.FreeBalance, []byte("present"))
	assert.True(t, found, "present key not found")
	assert.Equal(t, uint64(42), n, "wrong value")

	assert.True(t, trx.Has(Pool.FreeBalance, []byte("present")), "Has")
}

func TestTransactionCommitAndAbort(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Commit().Return(nil).Times(1)
	mock.EXPECT().Abort().Times(1)
	mock.EXPECT().InUse().Return(false).Times(1)

	assert.Nil(t, trx.Commit(), "commit")
	trx.Abort()
	assert.False(t, trx.InUse(), "in use")
}

func TestAccessBeginTwice(t *testing.T) {
	db, err := OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	trx, err := db.Begin()
	assert.Nil(t, err, "first Begin")
	assert.True(t, trx.InUse(), "not in use")

	_, err = db.Begin()
	assert.Equal(t, fault.ErrTransactionInUse, err, "second Begin")

	trx.Abort()
	assert.False(t, trx.InUse(), "still in use after abort")

	_, err = db.Begin()
	assert.Nil(t, err, "Begin after Abort")
}

func TestSetupPoolsRejectsBadTags(t *testing.T) {
	type duplicate struct {
		First  *PoolHandle `prefix:"A"`
		Second *PoolHandle `prefix:"A"`
	}
	type missing struct {
		First *PoolHandle
	}

	assert.NotNil(t, setupPools(&duplicate{}), "duplicate prefix accepted")
	assert.NotNil(t, setupPools(&missing{}), "missing prefix accepted")
	assert.Equal(t, fault.ErrInvalidStructPointer, setupPools(duplicate{}), "non pointer accepted")

	var p pools
	assert.Nil(t, setupPools(&p), "pools")
	assert.Equal(t, byte('R'), p.Records.Prefix(), "records prefix")
	assert.Equal(t, byte('Z'), p.TestData.Prefix(), "test prefix")
}
