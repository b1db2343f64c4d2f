// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/fault"
)

const emptySHA3 = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"

func TestNewDigest(t *testing.T) {
	d := digest.NewDigest([]byte{})
	assert.Equal(t, emptySHA3, d.String(), "wrong SHA3-256")
	assert.False(t, d.IsZero(), "digest is zero")
	assert.True(t, digest.Digest{}.IsZero(), "zero digest not detected")
}

func TestTextForms(t *testing.T) {
	d, err := digest.FromString(emptySHA3)
	assert.Nil(t, err, "FromString")
	assert.Equal(t, digest.NewDigest([]byte{}), d, "wrong parse")

	b, err := json.Marshal(d)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `"`+emptySHA3+`"`, string(b), "wrong JSON")

	var scanned digest.Digest
	n, err := fmt.Sscan(emptySHA3, &scanned)
	assert.Nil(t, err, "scan")
	assert.Equal(t, 1, n, "scan count")
	assert.Equal(t, d, scanned, "wrong scan")

	_, err = digest.FromString("abcd")
	assert.Equal(t, fault.ErrInvalidDigest, err, "short digest accepted")
}

func TestFromBytes(t *testing.T) {
	var d digest.Digest
	err := digest.FromBytes(&d, make([]byte, digest.Length-1))
	assert.Equal(t, fault.ErrInvalidDigest, err, "short buffer accepted")

	source := digest.NewDigest([]byte("record"))
	err = digest.FromBytes(&d, source[:])
	assert.Nil(t, err, "FromBytes")
	assert.Equal(t, source, d, "wrong digest")
}
