// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/util"
)

// enumeration of supported key algorithms
const (
	Nothing        = iota // zero keytype **Just for Testing**
	ED25519        = iota
	algorithmLimit = iota
)

const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4

	nothingKeyLength = 2
)

// Account - base type for accounts
type Account struct {
	AccountInterface
}

// AccountInterface - the methods every key algorithm supplies
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
	IsTesting() bool
}

// header shared by the binary and base58 forms
type keyHeader struct {
	algorithm uint64
	test      bool
	length    int
}

func parseKeyHeader(buffer []byte, public bool) (keyHeader, error) {
	keyVariant, n := util.FromVarint64(buffer)
	if 0 == n {
		if public {
			return keyHeader{}, fault.ErrNotPublicKey
		}
		return keyHeader{}, fault.ErrNotPrivateKey
	}
	isPublic := publicKeyCode == keyVariant&publicKeyCode
	if public != isPublic {
		if public {
			return keyHeader{}, fault.ErrNotPublicKey
		}
		return keyHeader{}, fault.ErrNotPrivateKey
	}

	algorithm := keyVariant >> algorithmShift
	if algorithm >= algorithmLimit {
		return keyHeader{}, fault.ErrInvalidKeyType
	}

	return keyHeader{
		algorithm: algorithm,
		test:      0 != keyVariant&testKeyCode,
		length:    n,
	}, nil
}

// split a base58 string into its payload after validating the checksum
func decodeChecked(s string, public bool) ([]byte, keyHeader, error) {
	decoded, err := base58.Decode(s)
	if nil != err || 0 == len(decoded) {
		if public {
			return nil, keyHeader{}, fault.ErrCannotDecodeAccount
		}
		return nil, keyHeader{}, fault.ErrCannotDecodePrivateKey
	}

	header, err := parseKeyHeader(decoded, public)
	if nil != err {
		return nil, keyHeader{}, err
	}

	if len(decoded)-header.length-checksumLength <= 0 {
		return nil, keyHeader{}, fault.ErrInvalidKeyLength
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return nil, keyHeader{}, fault.ErrChecksumMismatch
	}
	return decoded[:checksumStart], header, nil
}

// base58 with a truncated SHA3 checksum appended
func encodeChecked(buffer []byte) string {
	checksum := sha3.Sum256(buffer)
	return base58.Encode(append(buffer, checksum[:checksumLength]...))
}

func variant(algorithm int, test bool, public bool) byte {
	keyVariant := byte(algorithm << algorithmShift)
	if public {
		keyVariant |= publicKeyCode
	}
	if test {
		keyVariant |= testKeyCode
	}
	return keyVariant
}

// AccountFromBase58 - convert a Base58 encoded string to an account
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	buffer, _, err := decodeChecked(accountBase58Encoded, true)
	if nil != err {
		return nil, err
	}
	return AccountFromBytes(buffer)
}

// AccountFromBytes - convert the binary form to an account
func AccountFromBytes(accountBytes []byte) (*Account, error) {
	header, err := parseKeyHeader(accountBytes, true)
	if nil != err {
		return nil, err
	}

	publicKey := make([]byte, len(accountBytes)-header.length)
	copy(publicKey, accountBytes[header.length:])

	switch header.algorithm {
	case ED25519:
		if ed25519PublicKeySize != len(publicKey) {
			return nil, fault.ErrInvalidKeyLength
		}
		return &Account{
			AccountInterface: &ED25519Account{
				Test:      header.test,
				PublicKey: publicKey,
			},
		}, nil
	case Nothing:
		if nothingKeyLength != len(publicKey) {
			return nil, fault.ErrInvalidKeyLength
		}
		return &Account{
			AccountInterface: &NothingAccount{
				Test:      header.test,
				PublicKey: publicKey,
			},
		}, nil
	default:
		return nil, fault.ErrInvalidKeyType
	}
}

// UnmarshalText - convert the base58 JSON form to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

// IsZero - true if the public key is all zero bytes
func (account *Account) IsZero() bool {
	if nil == account || nil == account.AccountInterface {
		return true
	}
	for _, b := range account.PublicKeyBytes() {
		if 0 != b {
			return false
		}
	}
	return true
}

// Equal - two accounts are the same if their binary forms match
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other {
		return account == other
	}
	return bytes.Equal(account.Bytes(), other.Bytes())
}
