// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/hashledger/fault"
)

const curveKeyLength = 32

// the ZAP handler is process wide, each CURVE server socket only adds
// its own domain
var (
	authenticationOnce  sync.Once
	authenticationError error
)

// StartAuthentication - start the ZAP handler, later calls return the
// result of the first
func StartAuthentication() error {
	authenticationOnce.Do(func() {
		zmq.AuthSetVerbose(false)
		authenticationError = zmq.AuthStart()
	})
	return authenticationError
}

// AllowClients - admit CURVE clients to a ZAP domain
//
// clientKeys are raw public keys as returned by ReadKeyFile; when there
// are none any client holding the server's public key may connect
func AllowClients(zapDomain string, clientKeys [][]byte) error {
	if err := StartAuthentication(); nil != err {
		return err
	}

	if 0 == len(clientKeys) {
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
		return nil
	}

	encoded := make([]string, 0, len(clientKeys))
	for _, key := range clientKeys {
		if curveKeyLength != len(key) {
			return fault.ErrInvalidKeyLength
		}
		encoded = append(encoded, zmq.Z85encode(string(key)))
	}
	zmq.AuthCurveAdd(zapDomain, encoded...)
	return nil
}
