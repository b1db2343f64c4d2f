// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - read-only JSON-RPC queries over TLS
//
// the daemon holds the leveldb lock, so while it runs this is the only
// way to read the ledgers
package rpc

import (
	"io/ioutil"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/storage"
)

const (
	logName = "rpc"
)

// Configuration - a block of configuration data
// this is read from a Lua configuration file
type Configuration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type rpcData struct {
	sync.Mutex

	log      *logger.L
	listener *listener

	// set once during initialise
	initialised bool
}

var globalData rpcData

// Initialise - load the certificate and start serving queries on every
// listen address
//
// an empty listen list disables the server
func Initialise(configuration *Configuration, db *storage.Database, version string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New(logName)
	globalData.log = log
	log.Info("starting…")

	if 0 == len(configuration.Listen) {
		log.Warn("no listen addresses: queries disabled")
		globalData.initialised = true
		return nil
	}

	certificate, err := ioutil.ReadFile(configuration.Certificate)
	if nil != err {
		log.Errorf("read certificate: %q  error: %s", configuration.Certificate, err)
		return err
	}
	key, err := ioutil.ReadFile(configuration.PrivateKey)
	if nil != err {
		log.Errorf("read private key: %q  error: %s", configuration.PrivateKey, err)
		return err
	}

	tlsConfig, fingerprint, err := getCertificate(log, logName, string(certificate), string(key))
	if nil != err {
		return err
	}
	log.Infof("SHA3-256 fingerprint: %x", fingerprint)

	l, err := newListener(configuration, log, NewServer(db, version), tlsConfig)
	if nil != err {
		return err
	}
	err = l.Serve()
	if nil != err {
		l.Close()
		return err
	}

	globalData.listener = l
	globalData.initialised = true
	return nil
}

// Finalise - stop accepting connections
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	if nil != globalData.listener {
		globalData.listener.Close()
		globalData.listener = nil
	}

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}
