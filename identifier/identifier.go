// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identifier - deterministic record identifiers
package identifier

import (
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/util"
)

//go:generate mockgen -source=identifier.go -destination=mocks/identifier.go -package=mocks

// Generator - produce a fresh identifier for a nonce
type Generator interface {
	Generate(nonce uint64) digest.Digest
}

// Environment - position of the current call in the chain
type Environment interface {
	BlockNumber() uint64
	CallIndex() uint64
}

type generator struct {
	seed []byte
	env  Environment
}

// New - SHA3-256 over seed, nonce, call index and block number
func New(seed []byte, env Environment) Generator {
	s := make([]byte, len(seed))
	copy(s, seed)
	return &generator{
		seed: s,
		env:  env,
	}
}

// Generate - identifier for nonce at the current environment position
func (g *generator) Generate(nonce uint64) digest.Digest {
	buffer := make([]byte, 0, len(g.seed)+3*util.Varint64MaximumBytes)
	buffer = append(buffer, g.seed...)
	buffer = append(buffer, util.ToVarint64(nonce)...)
	buffer = append(buffer, util.ToVarint64(g.env.CallIndex())...)
	buffer = append(buffer, util.ToVarint64(g.env.BlockNumber())...)
	return digest.NewDigest(buffer)
}

// Position - a settable Environment
type Position struct {
	Block uint64
	Index uint64
}

// BlockNumber - current block
func (p *Position) BlockNumber() uint64 {
	return p.Block
}

// CallIndex - position of the call within the block
func (p *Position) CallIndex() uint64 {
	return p.Index
}
