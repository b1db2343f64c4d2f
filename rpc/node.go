// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/mode"
	"github.com/bitmark-inc/hashledger/spool"
	"github.com/bitmark-inc/hashledger/storage"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for the RPC
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	DB      *storage.Database
	Start   time.Time
	Version string
}

// NewNode - daemon status queries
func NewNode(log *logger.L, db *storage.Database, start time.Time, version string) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		DB:      db,
		Start:   start,
		Version: version,
	}
}

// InfoArguments - none
type InfoArguments struct{}

// InfoReply - daemon status
type InfoReply struct {
	Chain   string `json:"chain"`
	Mode    string `json:"mode"`
	Height  uint64 `json:"height"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Info - chain, mode and version of the daemon
func (node *Node) Info(arguments *InfoArguments, reply *InfoReply) error {
	if err := limit(node.Limiter); nil != err {
		return err
	}

	reply.Chain = mode.ChainName()
	reply.Mode = mode.String()
	reply.Height = spool.Height(node.DB)
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
