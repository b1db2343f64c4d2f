// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - resolve the account behind a call
package identity

import (
	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/fault"
)

//go:generate mockgen -source=identity.go -destination=mocks/identity.go -package=mocks

// Origin - who claims to be making a call
//
// a signed origin also names the caller's sequence, which is covered by
// the signature and must match the next unused sequence of the account
type Origin struct {
	Account   *account.Account  `json:"account"`
	Sequence  uint64            `json:"sequence"`
	Signature account.Signature `json:"signature,omitempty"`
}

// IsSigned - whether the origin carries a signature
func (o Origin) IsSigned() bool {
	return 0 != len(o.Signature)
}

// Authenticator - turn an origin and the packed call into an account
type Authenticator interface {
	Authenticate(origin Origin, message []byte) (*account.Account, error)
}

// Signed - require a valid signature from a key on the expected network
type Signed struct {
	Testing bool
}

// Authenticate - verify the signature over message
func (s Signed) Authenticate(origin Origin, message []byte) (*account.Account, error) {
	if origin.Account.IsZero() {
		return nil, fault.ErrMissingCaller
	}
	if s.Testing != origin.Account.IsTesting() {
		return nil, fault.ErrWrongNetworkForKey
	}
	if 0 == len(origin.Signature) {
		return nil, fault.ErrInvalidSignature
	}
	if err := origin.Account.CheckSignature(message, origin.Signature); nil != err {
		return nil, err
	}
	return origin.Account, nil
}

// Trusted - accept whatever account the host supplies
type Trusted struct{}

// Authenticate - only checks an account is present
func (Trusted) Authenticate(origin Origin, message []byte) (*account.Account, error) {
	if origin.Account.IsZero() {
		return nil, fault.ErrMissingCaller
	}
	return origin.Account, nil
}
