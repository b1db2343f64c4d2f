// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/hashledger/fault"
)

// PrivateKey - an ed25519 signing key
//
// only ed25519 keys can sign; the Nothing algorithm has no private form
type PrivateKey struct {
	Test       bool
	PrivateKey ed25519.PrivateKey
}

// seed parameters
var (
	seedHeader = []byte{0x5a, 0xfe, 0x01}
	seedNonce  = [24]byte{}
	seedCount  = [16]byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0xe7,
	}
)

const (
	seedPrefixLength   = 1
	seedKeyLength      = 32
	seedChecksumLength = 4
	seedLength         = len("\x5a\xfe\x01") + seedPrefixLength + seedKeyLength + seedChecksumLength
)

// PrivateKeyFromBase58Seed - derive the private key from a base58 seed
func PrivateKeyFromBase58Seed(seedBase58Encoded string) (*PrivateKey, error) {
	seed, err := base58.Decode(seedBase58Encoded)
	if nil != err || 0 == len(seed) {
		return nil, fault.ErrCannotDecodeSeed
	}
	if seedLength != len(seed) {
		return nil, fault.ErrInvalidSeedLength
	}
	if !bytes.Equal(seedHeader, seed[:len(seedHeader)]) {
		return nil, fault.ErrInvalidSeedHeader
	}

	checksumStart := len(seed) - seedChecksumLength
	checksum := sha3.Sum256(seed[:checksumStart])
	if !bytes.Equal(checksum[:seedChecksumLength], seed[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}

	// first byte after the header is the network indication
	isTest := 0x01 == seed[len(seedHeader)]

	var secretKey [seedKeyLength]byte
	copy(secretKey[:], seed[len(seedHeader)+seedPrefixLength:checksumStart])

	encrypted := secretbox.Seal([]byte{}, seedCount[:], &seedNonce, &secretKey)

	_, priv, err := ed25519.GenerateKey(bytes.NewBuffer(encrypted))
	if nil != err {
		return nil, err
	}
	return &PrivateKey{
		Test:       isTest,
		PrivateKey: priv,
	}, nil
}

// PrivateKeyFromBase58 - convert the base58 form produced by String
func PrivateKeyFromBase58(privateKeyBase58Encoded string) (*PrivateKey, error) {
	buffer, header, err := decodeChecked(privateKeyBase58Encoded, false)
	if nil != err {
		return nil, err
	}
	if ED25519 != header.algorithm {
		return nil, fault.ErrInvalidKeyType
	}
	key := buffer[header.length:]
	if ed25519.PrivateKeySize != len(key) {
		return nil, fault.ErrInvalidKeyLength
	}
	return &PrivateKey{
		Test:       header.test,
		PrivateKey: ed25519.PrivateKey(key),
	}, nil
}

// Account - the public half as an account
func (privateKey *PrivateKey) Account() *Account {
	publicKey := make([]byte, ed25519.PublicKeySize)
	copy(publicKey, privateKey.PrivateKey[ed25519.PrivateKeySize-ed25519.PublicKeySize:])
	return &Account{
		AccountInterface: &ED25519Account{
			Test:      privateKey.Test,
			PublicKey: publicKey,
		},
	}
}

// Sign - produce an ed25519 signature over message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}

// Bytes - byte slice for encoded key
func (privateKey *PrivateKey) Bytes() []byte {
	return append([]byte{variant(ED25519, privateKey.Test, false)}, privateKey.PrivateKey...)
}

// String - base58 encoding of encoded key
func (privateKey *PrivateKey) String() string {
	return encodeChecked(privateKey.Bytes())
}

// MarshalText - convert a private key to its Base58 JSON form
func (privateKey PrivateKey) MarshalText() ([]byte, error) {
	return []byte(privateKey.String()), nil
}

// UnmarshalText - convert the Base58 JSON form to a private key
func (privateKey *PrivateKey) UnmarshalText(s []byte) error {
	p, err := PrivateKeyFromBase58(string(s))
	if nil != err {
		return err
	}
	*privateKey = *p
	return nil
}
