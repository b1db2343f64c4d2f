// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"github.com/bitmark-inc/hashledger/fault"
)

// NothingAccount - a two byte identity that can never sign
//
// only used by tests and the trusted origin path
type NothingAccount struct {
	Test      bool
	PublicKey []byte
}

// NewNothing - convenience constructor for test identities
func NewNothing(id uint16) *Account {
	return &Account{
		AccountInterface: &NothingAccount{
			Test:      true,
			PublicKey: []byte{byte(id >> 8), byte(id)},
		},
	}
}

// KeyType - key type code (see enumeration in account.go)
func (account *NothingAccount) KeyType() int {
	return Nothing
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *NothingAccount) PublicKeyBytes() []byte {
	return account.PublicKey
}

// CheckSignature - always fails
func (account *NothingAccount) CheckSignature(message []byte, signature Signature) error {
	return fault.ErrInvalidSignature
}

// Bytes - byte slice for encoded key
func (account *NothingAccount) Bytes() []byte {
	return append([]byte{variant(Nothing, account.Test, true)}, account.PublicKey...)
}

// String - base58 encoding of encoded key
func (account *NothingAccount) String() string {
	return encodeChecked(account.Bytes())
}

// MarshalText - convert an account to its Base58 JSON form
func (account NothingAccount) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// IsTesting - whether the public key is for the test network
func (account NothingAccount) IsTesting() bool {
	return account.Test
}
