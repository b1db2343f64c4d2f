// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package denselist - gap-free positional lists kept over three pools
//
//   Array ++ partition ++ BN(position) - item at position
//   Index ++ item                      - position of item
//   Counts ++ partition                - number of items
//
// an item belongs to at most one partition at a time, so the index is
// keyed by item alone
package denselist

import (
	"encoding/binary"
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/storage"
)

// List - one family of dense lists
type List struct {
	Array    *storage.PoolHandle
	Index    *storage.PoolHandle
	Counts   *storage.PoolHandle
	Overflow error // returned when a partition is full
}

func positionKey(partition []byte, position uint64) []byte {
	key := make([]byte, len(partition), len(partition)+8)
	copy(key, partition)
	var bn [8]byte
	binary.BigEndian.PutUint64(bn[:], position)
	return append(key, bn[:]...)
}

// Count - number of items in a partition
func (l *List) Count(r storage.Reader, partition []byte) uint64 {
	n, _ := r.GetN(l.Counts, partition)
	return n
}

// At - item at a position, false if the position is past the end
func (l *List) At(r storage.Reader, partition []byte, position uint64) ([]byte, bool) {
	if position >= l.Count(r, partition) {
		return nil, false
	}
	item := r.Get(l.Array, positionKey(partition, position))
	if nil == item {
		logger.Panicf("denselist: partition: %x  position: %d  missing below count", partition, position)
	}
	return item, true
}

// PositionOf - position of an item within whichever partition holds it
func (l *List) PositionOf(r storage.Reader, item []byte) (uint64, bool) {
	return r.GetN(l.Index, item)
}

// Append - add an item at the end of a partition and return its position
func (l *List) Append(trx storage.Transaction, partition []byte, item []byte) (uint64, error) {
	count := l.Count(trx, partition)
	if math.MaxUint64 == count {
		return 0, l.Overflow
	}

	trx.Put(l.Array, positionKey(partition, count), item)
	trx.PutN(l.Index, item, count)
	trx.PutN(l.Counts, partition, count+1)
	return count, nil
}

// Remove - take an item out of a partition by moving the last item into its slot
func (l *List) Remove(trx storage.Transaction, partition []byte, item []byte) error {
	count := l.Count(trx, partition)
	if 0 == count {
		return fault.ErrCountUnderflow
	}

	position, found := trx.GetN(l.Index, item)
	if !found || position >= count {
		logger.Panicf("denselist: item: %x  has no valid position in partition: %x", item, partition)
	}

	current := trx.Get(l.Array, positionKey(partition, position))
	if string(current) != string(item) {
		logger.Panicf("denselist: partition: %x  position: %d  holds: %x  expected: %x", partition, position, current, item)
	}

	last := count - 1
	if position != last {
		lastItem := trx.Get(l.Array, positionKey(partition, last))
		if nil == lastItem {
			logger.Panicf("denselist: partition: %x  last position: %d  is empty", partition, last)
		}
		// overlay values must not be retained across writes
		moved := make([]byte, len(lastItem))
		copy(moved, lastItem)

		trx.Put(l.Array, positionKey(partition, position), moved)
		trx.PutN(l.Index, moved, position)
	}
	trx.Delete(l.Array, positionKey(partition, last))
	trx.Delete(l.Index, item)
	trx.PutN(l.Counts, partition, last)
	return nil
}
