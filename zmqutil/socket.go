// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - ZeroMQ socket helpers
package zmqutil

import (
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// NewPublisher - PUB socket bound to every endpoint
//
// when privateKey is non-empty the socket is a CURVE server accepting
// the subscriber keys, or any client if none are given
func NewPublisher(log *logger.L, zapDomain string, privateKey []byte, publicKey []byte, subscribers [][]byte, endpoints []string) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}

	if 0 != len(privateKey) {
		if err := AllowClients(zapDomain, subscribers); nil != err {
			socket.Close()
			return nil, err
		}
		socket.SetCurveServer(1)
		socket.SetCurveSecretkey(string(privateKey))
		socket.SetZapDomain(zapDomain)
		socket.SetIdentity(string(publicKey))
	}

	socket.SetLinger(0)
	socket.SetHeartbeatIvl(heartbeatInterval)
	socket.SetHeartbeatTimeout(heartbeatTimeout)
	socket.SetHeartbeatTtl(heartbeatTTL)

	for i, endpoint := range endpoints {
		err := socket.Bind(endpoint)
		if nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, endpoint, err)
			socket.Close()
			return nil, err
		}
		log.Infof("bind[%d]: %q", i, endpoint)
	}
	return socket, nil
}
