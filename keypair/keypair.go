// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/fault"
)

const seedCoreLength = 32

// RawKeyPair - text version of seed and keys as written by the cli
type RawKeyPair struct {
	Seed       string `json:"seed"`
	Account    string `json:"account"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewSeed - create a new seed from secure random data
func NewSeed(test bool) (string, error) {
	seedCore := make([]byte, seedCoreLength)
	n, err := rand.Read(seedCore)
	if nil != err {
		return "", err
	}
	if seedCoreLength != n {
		return "", fault.ErrInvalidSeedLength
	}
	net := byte(0x00)
	if test {
		net = 0x01
	}
	packedSeed := append([]byte{0x5a, 0xfe, 0x01, net}, seedCore...)
	checksum := sha3.Sum256(packedSeed)
	packedSeed = append(packedSeed, checksum[:4]...)

	return base58.Encode(packedSeed), nil
}

// MakeRawKeyPair - create new seed and generate public/private keys from it
func MakeRawKeyPair(test bool) (*RawKeyPair, *account.PrivateKey, error) {
	seed, err := NewSeed(test)
	if err != nil {
		return nil, nil, err
	}
	return MakeRawKeyPairFromSeed(seed)
}

// MakeRawKeyPairFromSeed - generate public/private keys from existing seed
func MakeRawKeyPairFromSeed(seed string) (*RawKeyPair, *account.PrivateKey, error) {
	privateKey, err := account.PrivateKeyFromBase58Seed(seed)
	if nil != err {
		return nil, nil, err
	}

	acc := privateKey.Account()
	raw := RawKeyPair{
		Seed:       seed,
		Account:    acc.String(),
		PublicKey:  hex.EncodeToString(acc.PublicKeyBytes()),
		PrivateKey: hex.EncodeToString(privateKey.PrivateKey),
	}
	return &raw, privateKey, nil
}
