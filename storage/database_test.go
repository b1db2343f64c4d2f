// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/fixtures"
	"github.com/bitmark-inc/hashledger/storage"
)

const databaseFileName = "test.leveldb"

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.RemoveAll(databaseFileName)
	os.Exit(rc)
}

type stringElement struct {
	key   string
	value string
}

func makeElements(input []stringElement) []storage.Element {
	output := make([]storage.Element, 0, len(input))
	for _, e := range input {
		output = append(output, storage.Element{
			Key:   []byte(e.key),
			Value: []byte(e.value),
		})
	}
	return output
}

// this is the expected order
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one(NEW)"},
	{"key-seven", "data-seven"},
	{"key-six", "data-six"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
})

func populate(t *testing.T, db *storage.Database) {
	trx, err := db.Begin()
	if !assert.Nil(t, err, "begin") {
		t.FailNow()
	}
	for _, s := range []stringElement{
		{"key-one", "data-one"},
		{"key-two", "data-two"},
		{"key-three", "data-three"},
		{"key-four", "data-four"},
		{"key-five", "data-five"},
		{"key-six", "data-six"},
		{"key-seven", "data-seven"},
		{"key-remove-me", "to be deleted"},
	} {
		trx.Put(storage.Pool.TestData, []byte(s.key), []byte(s.value))
	}
	trx.Delete(storage.Pool.TestData, []byte("key-remove-me"))
	trx.Put(storage.Pool.TestData, []byte("key-one"), []byte("data-one(NEW)"))
	assert.Nil(t, trx.Commit(), "commit")
}

func TestStagedWritesInvisibleUntilCommit(t *testing.T) {
	db, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	trx, err := db.Begin()
	assert.Nil(t, err, "begin")

	trx.PutN(storage.Pool.TestData, []byte("n"), 7)
	n, found := trx.GetN(storage.Pool.TestData, []byte("n"))
	assert.True(t, found, "staged write not visible to transaction")
	assert.Equal(t, uint64(7), n, "staged value")

	assert.False(t, db.Has(storage.Pool.TestData, []byte("n")), "staged write visible to database")

	assert.Nil(t, trx.Commit(), "commit")

	n, found = db.GetN(storage.Pool.TestData, []byte("n"))
	assert.True(t, found, "committed write not visible")
	assert.Equal(t, uint64(7), n, "committed value")
}

func TestAbortDiscardsWrites(t *testing.T) {
	db, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	populate(t, db)

	trx, err := db.Begin()
	assert.Nil(t, err, "begin")
	trx.Put(storage.Pool.TestData, []byte("key-new"), []byte("data-new"))
	trx.Delete(storage.Pool.TestData, []byte("key-two"))

	assert.Nil(t, trx.Get(storage.Pool.TestData, []byte("key-two")), "staged delete still visible")
	assert.False(t, trx.Has(storage.Pool.TestData, []byte("key-two")), "staged delete still present")
	trx.Abort()

	assert.Nil(t, db.Get(storage.Pool.TestData, []byte("key-new")), "aborted put persisted")
	assert.Equal(t, []byte("data-two"), db.Get(storage.Pool.TestData, []byte("key-two")), "aborted delete persisted")

	trx, err = db.Begin()
	assert.Nil(t, err, "begin after abort")
	assert.Nil(t, trx.Get(storage.Pool.TestData, []byte("key-new")), "overlay survived abort")
	trx.Abort()
}

func TestMapAndFetch(t *testing.T) {
	db, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	populate(t, db)

	mapped := []storage.Element{}
	err = db.Map(storage.Pool.TestData, func(key []byte, value []byte) error {
		mapped = append(mapped, storage.Element{Key: key, Value: value})
		return nil
	})
	assert.Nil(t, err, "map")
	assert.Equal(t, expectedElements, mapped, "map order")

	cursor := db.NewFetchCursor(storage.Pool.TestData)
	fetched := []storage.Element{}
	for {
		data, err := cursor.Fetch(3)
		assert.Nil(t, err, "fetch")
		if 0 == len(data) {
			break
		}
		fetched = append(fetched, data...)
	}
	assert.Equal(t, expectedElements, fetched, "fetch order")

	_, err = cursor.Fetch(0)
	assert.Equal(t, fault.ErrInvalidCount, err, "zero count accepted")

	data, err := db.NewFetchCursor(storage.Pool.TestData).Seek([]byte("key-s")).Fetch(2)
	assert.Nil(t, err, "seek fetch")
	assert.Equal(t, expectedElements[3:5], data, "seek")
}

func TestMapStopsOnError(t *testing.T) {
	db, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	populate(t, db)

	calls := 0
	err = db.Map(storage.Pool.TestData, func(key []byte, value []byte) error {
		calls += 1
		return fault.ErrInvalidCount
	})
	assert.Equal(t, fault.ErrInvalidCount, err, "error not returned")
	assert.Equal(t, 1, calls, "map continued after error")
}

func TestOpenFile(t *testing.T) {
	os.RemoveAll(databaseFileName)

	_, err := storage.Open(databaseFileName, storage.ReadOnly)
	assert.NotNil(t, err, "read only open of missing database")

	db, err := storage.Open(databaseFileName, storage.ReadWrite)
	assert.Nil(t, err, "create")
	populate(t, db)
	db.Close()

	db, err = storage.Open(databaseFileName, storage.ReadOnly)
	assert.Nil(t, err, "reopen read only")
	defer db.Close()

	assert.Equal(t, []byte("data-one(NEW)"), db.Get(storage.Pool.TestData, []byte("key-one")), "persisted data")

	_, err = db.Begin()
	assert.Equal(t, fault.ErrReadOnly, err, "write transaction on read only database")
}
