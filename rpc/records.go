// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/registry"
	"github.com/bitmark-inc/hashledger/storage"
)

// Records
// -------

const (
	MaximumRecordsCount = 100
	rateLimitRecords    = 200
	rateBurstRecords    = 100
)

// Records - type for the RPC
type Records struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	DB       *storage.Database
	Registry *registry.Registry
}

// NewRecords - record queries against db
func NewRecords(log *logger.L, db *storage.Database) *Records {
	return &Records{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitRecords, rateBurstRecords),
		DB:       db,
		Registry: registry.New(),
	}
}

// RecordArguments - a single record id
type RecordArguments struct {
	Id digest.Digest `json:"id"`
}

// RecordReply - record, its owner and creation position
type RecordReply struct {
	Record *registry.Record `json:"record"`
	Owner  *account.Account `json:"owner"`
	Index  uint64           `json:"index"`
}

// Get - a record with its owner
func (records *Records) Get(arguments *RecordArguments, reply *RecordReply) error {
	if err := limit(records.Limiter); nil != err {
		return err
	}

	records.Log.Debugf("Records.Get: %s", arguments.Id)

	record, err := records.Registry.Record(records.DB, arguments.Id)
	if nil != err {
		return err
	}
	reply.Record = record
	reply.Owner, _ = records.Registry.OwnerOf(records.DB, arguments.Id)
	reply.Index, _ = records.Registry.IndexOf(records.DB, arguments.Id)
	return nil
}

// OwnerReply - current owner of a record
type OwnerReply struct {
	Id    digest.Digest    `json:"id"`
	Owner *account.Account `json:"owner"`
}

// Owner - current owner of a record
func (records *Records) Owner(arguments *RecordArguments, reply *OwnerReply) error {
	if err := limit(records.Limiter); nil != err {
		return err
	}

	owner, ok := records.Registry.OwnerOf(records.DB, arguments.Id)
	if !ok {
		return fault.ErrRecordNotFound
	}
	reply.Id = arguments.Id
	reply.Owner = owner
	return nil
}

// ListArguments - page of the creation order list
type ListArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// ListReply - record ids in creation order
type ListReply struct {
	Total   uint64          `json:"total"`
	Records []digest.Digest `json:"records"`
}

// List - record ids in creation order starting at a position
func (records *Records) List(arguments *ListArguments, reply *ListReply) error {
	if err := limitN(records.Limiter, arguments.Count, MaximumRecordsCount); nil != err {
		return err
	}

	reply.Total = records.Registry.Count(records.DB)
	reply.Records = make([]digest.Digest, 0, arguments.Count)
	for i := arguments.Start; i < reply.Total && len(reply.Records) < arguments.Count; i += 1 {
		id, ok := records.Registry.RecordAt(records.DB, i)
		if !ok {
			break
		}
		reply.Records = append(reply.Records, id)
	}
	return nil
}

// OwnedArguments - page of an owner's list
type OwnedArguments struct {
	Owner *account.Account `json:"owner"`
	Start uint64           `json:"start,string"`
	Count int              `json:"count"`
}

// OwnedReply - position and id of each owned record
type OwnedReply struct {
	Owner   *account.Account     `json:"owner"`
	Total   uint64               `json:"total"`
	Records []registry.OwnedItem `json:"records"`
}

// Owned - records held by an account
func (records *Records) Owned(arguments *OwnedArguments, reply *OwnedReply) error {
	if err := limitN(records.Limiter, arguments.Count, MaximumRecordsCount); nil != err {
		return err
	}

	if nil == arguments.Owner {
		return fault.ErrMissingAccount
	}

	items, err := registry.ListOwned(records.DB, arguments.Owner, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Owner = arguments.Owner
	reply.Total = records.Registry.OwnedCount(records.DB, arguments.Owner)
	reply.Records = items
	return nil
}
