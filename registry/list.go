// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"bytes"
	"encoding/binary"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/storage"
)

const uint64ByteSize = 8

// OwnedItem - one slot of an owner's list
type OwnedItem struct {
	N  uint64        `json:"n,string"`
	Id digest.Digest `json:"id"`
}

// ListOwned - page through an owner's list from a starting position
func ListOwned(db *storage.Database, owner *account.Account, start uint64, count int) ([]OwnedItem, error) {
	startBytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(startBytes, start)

	ownerBytes := owner.Bytes()
	prefix := append(append([]byte{}, ownerBytes...), startBytes...)

	// owner ++ position → id
	cursor := db.NewFetchCursor(storage.Pool.OwnedRecords).Seek(prefix)
	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	items := make([]OwnedItem, 0, len(elements))
	for _, element := range elements {
		split := len(element.Key) - uint64ByteSize
		if split != len(ownerBytes) || !bytes.Equal(ownerBytes, element.Key[:split]) {
			break
		}

		item := OwnedItem{
			N: binary.BigEndian.Uint64(element.Key[split:]),
		}
		if err := digest.FromBytes(&item.Id, element.Value); nil != err {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
