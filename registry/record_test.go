// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/registry"
)

func TestPackUnpack(t *testing.T) {
	record := newRecord(1, 1<<40, account4)
	packed := record.Pack()

	unpacked, err := registry.Unpack(packed)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, record, unpacked, "round trip")

	_, err = registry.Unpack(packed[:len(packed)-1])
	assert.Equal(t, fault.ErrTruncatedRecord, err, "truncated provider")

	_, err = registry.Unpack(packed[:20])
	assert.Equal(t, fault.ErrTruncatedRecord, err, "truncated id")

	_, err = registry.Unpack(append(packed, 0x00))
	assert.Equal(t, fault.ErrCannotDecodeRecord, err, "trailing bytes")
}
