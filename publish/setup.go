// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - send ledger notifications to ZeroMQ subscribers
package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/background"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/messagebus"
	"github.com/bitmark-inc/hashledger/zmqutil"
)

// Configuration - a block of configuration data
// this is read from a Lua configuration file
type Configuration struct {
	Broadcast   []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey  string   `gluamapper:"private_key" json:"private_key"`
	PublicKey   string   `gluamapper:"public_key" json:"public_key"`
	Subscribers []string `gluamapper:"subscribers" json:"subscribers"`
}

type publishData struct {
	sync.Mutex

	log        *logger.L
	background *background.T

	// set once during initialise
	initialised bool
}

var globalData publishData

// Initialise - bind the broadcast sockets and start publishing
// everything sent to queue
func Initialise(configuration *Configuration, queue *messagebus.BroadcastQueue) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("publish")
	globalData.log.Info("starting…")

	if 0 == len(configuration.Broadcast) {
		globalData.log.Warn("no broadcast endpoints: notifications will not be published")
		globalData.initialised = true
		return nil
	}

	privateKey := []byte(nil)
	publicKey := []byte(nil)
	if "" != configuration.PrivateKey {
		var err error
		privateKey, err = zmqutil.ReadKeyFile(configuration.PrivateKey, true)
		if nil != err {
			globalData.log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			return err
		}
		publicKey, err = zmqutil.ReadKeyFile(configuration.PublicKey, false)
		if nil != err {
			globalData.log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
			return err
		}
	}

	subscribers := make([][]byte, 0, len(configuration.Subscribers))
	for _, fileName := range configuration.Subscribers {
		key, err := zmqutil.ReadKeyFile(fileName, false)
		if nil != err {
			globalData.log.Errorf("read subscriber key file: %q  error: %s", fileName, err)
			return err
		}
		subscribers = append(subscribers, key)
	}

	pub, err := New(configuration.Broadcast, privateKey, publicKey, subscribers, queue)
	if nil != err {
		return err
	}

	globalData.initialised = true
	globalData.background = background.Start(background.Processes{pub}, nil)
	return nil
}

// Finalise - stop publishing
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	if nil != globalData.background {
		globalData.background.Stop()
		globalData.background = nil
	}

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}
