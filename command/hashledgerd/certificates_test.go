// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/hashledger/fault"
)

func TestMakeSelfSignedCertificate(t *testing.T) {
	dir, err := ioutil.TempDir("", "hashledgerd")
	if !assert.Nil(t, err, "temp dir") {
		t.FailNow()
	}
	defer os.RemoveAll(dir)

	certificateFile := filepath.Join(dir, rpcCertificateFilename)
	keyFile := filepath.Join(dir, rpcPrivateKeyFilename)

	err = makeSelfSignedCertificate("rpc", certificateFile, keyFile, true, []string{"127.0.0.1"})
	if !assert.Nil(t, err, "make certificate") {
		t.FailNow()
	}

	_, err = tls.LoadX509KeyPair(certificateFile, keyFile)
	assert.Nil(t, err, "load key pair")

	info, err := os.Stat(keyFile)
	if assert.Nil(t, err, "stat key") {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "key permissions")
	}

	err = makeSelfSignedCertificate("rpc", certificateFile, keyFile, false, nil)
	assert.Equal(t, fault.ErrCertificateFileExists, err, "existing certificate")

	os.Remove(certificateFile)
	err = makeSelfSignedCertificate("rpc", certificateFile, keyFile, false, nil)
	assert.Equal(t, fault.ErrKeyFileAlreadyExists, err, "existing key")
}
