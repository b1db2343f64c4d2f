// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spool_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/background"
	"github.com/bitmark-inc/hashledger/dispatch"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/fixtures"
	"github.com/bitmark-inc/hashledger/genesis"
	"github.com/bitmark-inc/hashledger/identifier"
	"github.com/bitmark-inc/hashledger/identity"
	"github.com/bitmark-inc/hashledger/spool"
	"github.com/bitmark-inc/hashledger/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type harness struct {
	dir        string
	db         *storage.Database
	dispatcher *dispatch.Dispatcher
	spool      *spool.Spool
}

func setup(t *testing.T) *harness {
	dir, err := ioutil.TempDir("", "spool")
	if !assert.Nil(t, err, "temp dir") {
		t.FailNow()
	}

	db, err := storage.OpenMemory()
	if !assert.Nil(t, err, "open") {
		t.FailNow()
	}
	_, err = genesis.ApplyAccount(db, fixtures.Alice, 21000000)
	assert.Nil(t, err, "genesis")

	position := &identifier.Position{}
	d := dispatch.New(db, identifier.New([]byte("spool"), position), identity.Trusted{}, event.Discard{})

	s, err := spool.New(dir, db, d, position)
	if !assert.Nil(t, err, "new spool") {
		t.FailNow()
	}
	return &harness{
		dir:        dir,
		db:         db,
		dispatcher: d,
		spool:      s,
	}
}

func (h *harness) close() {
	h.db.Close()
	os.RemoveAll(h.dir)
}

func (h *harness) write(t *testing.T, name string, sc *dispatch.SignedCall) {
	_, err := spool.Write(h.dir, name, sc)
	assert.Nil(t, err, "write: %s", name)
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

func TestProcessBatch(t *testing.T) {
	h := setup(t)
	defer h.close()

	h.write(t, "001", &dispatch.SignedCall{
		Caller: fixtures.Eve,
		Call:   dispatch.CreateRecord{HashPower: 10, StartDate: 1, EndDate: 2, ServiceProvider: fixtures.Bob},
	})
	h.write(t, "002", &dispatch.SignedCall{
		Caller: fixtures.Bob,
		Call:   dispatch.Issue{},
	})
	h.write(t, "003", &dispatch.SignedCall{
		Caller: fixtures.Alice,
		Call:   dispatch.Issue{},
	})
	assert.Nil(t, ioutil.WriteFile(filepath.Join(h.dir, "004.call"), []byte("not json"), 0600), "write junk")
	assert.Nil(t, ioutil.WriteFile(filepath.Join(h.dir, "notes.txt"), []byte("ignore"), 0600), "write other")

	n, err := h.spool.ProcessBatch()
	assert.Nil(t, err, "process")
	assert.Equal(t, 4, n, "files handled")

	assert.True(t, exists(filepath.Join(h.dir, "001.done")), "create not done")
	assert.True(t, exists(filepath.Join(h.dir, "002.failed")), "non-owner issue not failed")
	assert.True(t, exists(filepath.Join(h.dir, "003.done")), "issue not done")
	assert.True(t, exists(filepath.Join(h.dir, "004.failed")), "junk not failed")
	assert.True(t, exists(filepath.Join(h.dir, "notes.txt")), "other file touched")

	assert.Equal(t, uint64(1), spool.Height(h.db), "height")
	assert.Equal(t, uint64(1), h.dispatcher.Registry().OwnedCount(h.db, fixtures.Eve), "record not created")
	assert.Equal(t, uint64(21000000), h.dispatcher.Ledger().FreeBalance(h.db, fixtures.Alice), "not issued")

	n, err = h.spool.ProcessBatch()
	assert.Nil(t, err, "empty batch")
	assert.Equal(t, 0, n, "files handled")
	assert.Equal(t, uint64(1), spool.Height(h.db), "empty batch advanced height")
}

func TestBatchesGiveDistinctIdentifiers(t *testing.T) {
	h := setup(t)
	defer h.close()

	create := &dispatch.SignedCall{
		Caller: fixtures.Eve,
		Call:   dispatch.CreateRecord{HashPower: 10, StartDate: 1, EndDate: 2, ServiceProvider: fixtures.Bob},
	}
	for batch := 0; batch < 2; batch += 1 {
		h.write(t, "a", create)
		h.write(t, "b", create)
		n, err := h.spool.ProcessBatch()
		assert.Nil(t, err, "%d: process", batch)
		assert.Equal(t, 2, n, "%d: files handled", batch)

		// reuse the names in the next batch
		os.Remove(filepath.Join(h.dir, "a.done"))
		os.Remove(filepath.Join(h.dir, "b.done"))
	}

	reg := h.dispatcher.Registry()
	assert.Equal(t, uint64(4), reg.Count(h.db), "count")
	assert.Equal(t, uint64(2), spool.Height(h.db), "height")
}

func TestRun(t *testing.T) {
	h := setup(t)
	defer h.close()

	p := background.Start(background.Processes{h.spool}, nil)
	defer p.Stop()

	h.write(t, "live", &dispatch.SignedCall{
		Caller: fixtures.Alice,
		Call:   dispatch.SetBalance{Account: fixtures.Charlie, Free: 5, Reserved: 6},
	})

	done := filepath.Join(h.dir, "live.done")
	for i := 0; i < 100 && !exists(done); i += 1 {
		time.Sleep(50 * time.Millisecond)
	}
	assert.True(t, exists(done), "call not processed")
	assert.Equal(t, uint64(6), h.dispatcher.Ledger().ReservedBalance(h.db, fixtures.Charlie), "reserved")
}
