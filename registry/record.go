// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/util"
)

// Record - a hash power contract
//
// immutable once stored; only its owner changes
type Record struct {
	Id              digest.Digest    `json:"id"`
	HashPower       uint64           `json:"hashPower"`
	StartDate       uint64           `json:"startDate"`
	EndDate         uint64           `json:"endDate"`
	ServiceProvider *account.Account `json:"serviceProvider"`
}

// Pack - id ++ varint fields ++ length prefixed service provider
func (record *Record) Pack() []byte {
	buffer := make([]byte, 0, digest.Length+3*9+40)
	buffer = append(buffer, record.Id[:]...)
	buffer = append(buffer, util.ToVarint64(record.HashPower)...)
	buffer = append(buffer, util.ToVarint64(record.StartDate)...)
	buffer = append(buffer, util.ToVarint64(record.EndDate)...)
	return util.AppendBytes(buffer, record.ServiceProvider.Bytes())
}

// Unpack - inverse of Pack
func Unpack(buffer []byte) (*Record, error) {
	if len(buffer) < digest.Length {
		return nil, fault.ErrTruncatedRecord
	}

	record := &Record{}
	copy(record.Id[:], buffer[:digest.Length])
	n := digest.Length

	fields := []*uint64{&record.HashPower, &record.StartDate, &record.EndDate}
	for _, field := range fields {
		value, length := util.FromVarint64(buffer[n:])
		if 0 == length {
			return nil, fault.ErrTruncatedRecord
		}
		*field = value
		n += length
	}

	providerBytes, length := util.FromBytes(buffer[n:])
	if 0 == length {
		return nil, fault.ErrTruncatedRecord
	}
	n += length
	if n != len(buffer) {
		return nil, fault.ErrCannotDecodeRecord
	}

	provider, err := account.AccountFromBytes(providerBytes)
	if nil != err {
		return nil, err
	}
	record.ServiceProvider = provider
	return record, nil
}
