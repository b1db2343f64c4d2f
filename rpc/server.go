// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/storage"
)

// NewServer - register every query service against one database
//
// also used by the CLI to run the same queries against a database
// opened read-only when no daemon is running
func NewServer(db *storage.Database, version string) *rpc.Server {
	log := logger.New(logName)
	server := rpc.NewServer()

	_ = server.Register(NewRecords(log, db))
	_ = server.Register(NewLedger(log, db))
	_ = server.Register(NewNode(log, db, time.Now().UTC(), version))

	return server
}
