// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/zmqutil"
)

const (
	publicText  = "PUBLIC:2b4d1f9b5e8d6cfb11a0f2e1d0c38e7a4b5c6d7e8f9011223344556677889900\n"
	privateText = "PRIVATE:00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
)

func TestParseKey(t *testing.T) {
	key, private, err := zmqutil.ParseKey(publicText)
	assert.Nil(t, err, "public")
	assert.False(t, private, "public flagged private")
	assert.Equal(t, 32, len(key), "public length")

	key, private, err = zmqutil.ParseKey(privateText)
	assert.Nil(t, err, "private")
	assert.True(t, private, "private not flagged")
	assert.Equal(t, byte(0xff), key[31], "last byte")

	_, _, err = zmqutil.ParseKey("PUBLIC:0011")
	assert.Equal(t, fault.ErrInvalidPublicKeyFile, err, "short public")

	_, _, err = zmqutil.ParseKey(strings.Replace(privateText, "00", "zz", 1))
	assert.Equal(t, fault.ErrInvalidPrivateKeyFile, err, "bad hex")

	_, _, err = zmqutil.ParseKey("SECRET:00")
	assert.Equal(t, fault.ErrInvalidPublicKeyFile, err, "unknown tag")
}

func TestReadKeyFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "zmqutil")
	if !assert.Nil(t, err, "temp dir") {
		t.FailNow()
	}
	defer os.RemoveAll(dir)

	publicFile := filepath.Join(dir, "publish.public")
	assert.Nil(t, ioutil.WriteFile(publicFile, []byte(publicText), 0600), "write")

	_, err = zmqutil.ReadKeyFile(publicFile, false)
	assert.Nil(t, err, "read public")

	_, err = zmqutil.ReadKeyFile(publicFile, true)
	assert.Equal(t, fault.ErrInvalidPrivateKeyFile, err, "public read as private")

	_, err = zmqutil.ReadKeyFile(filepath.Join(dir, "missing"), false)
	assert.NotNil(t, err, "missing file")
}
