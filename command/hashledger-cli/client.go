// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/rpc/jsonrpc"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/rpc"
	"github.com/bitmark-inc/hashledger/storage"
)

type caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
	Close() error
}

// queryClient - runs the daemon's query methods either over TLS or
// in-process against a database opened read-only
type queryClient struct {
	client caller
	db     *storage.Database
}

func newClient(m *metadata) (*queryClient, error) {
	if "" != m.connect {
		if m.verbose {
			fmt.Fprintf(m.e, "connect: %q\n", m.connect)
		}
		conn, err := tls.Dial("tcp", m.connect, &tls.Config{InsecureSkipVerify: true})
		if nil != err {
			return nil, err
		}
		return &queryClient{client: jsonrpc.NewClient(conn)}, nil
	}

	if "" == m.database {
		return nil, fmt.Errorf("either --connect or --database is required")
	}
	if m.verbose {
		fmt.Fprintf(m.e, "database: %q\n", m.database)
	}

	initialiseLogger(m)

	db, err := storage.Open(m.database, storage.ReadOnly)
	if nil != err {
		return nil, err
	}

	server := rpc.NewServer(db, version)
	serverConn, clientConn := net.Pipe()
	go server.ServeCodec(jsonrpc.NewServerCodec(serverConn))

	return &queryClient{
		client: jsonrpc.NewClient(clientConn),
		db:     db,
	}, nil
}

func (q *queryClient) Call(method string, args interface{}, reply interface{}) error {
	return q.client.Call(method, args, reply)
}

// Close - drop the connection then the database
func (q *queryClient) Close() {
	q.client.Close()
	if nil != q.db {
		q.db.Close()
	}
}

// the query services log, so the logger must exist even for a one
// shot command
func initialiseLogger(m *metadata) {
	level := "critical"
	if m.verbose {
		level = "info"
	}
	err := logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "hashledger-cli.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err && m.verbose {
		fmt.Fprintf(m.e, "logger: %s\n", err)
	}
}
