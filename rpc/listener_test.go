// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"crypto/tls"
	"io/ioutil"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/fixtures"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func TestParseListenAddress(t *testing.T) {
	tests := []struct {
		listen    string
		network   string
		rewritten string
	}{
		{"127.0.0.1:2130", "tcp4", "127.0.0.1:2130"},
		{"[::1]:2130", "tcp6", "[::1]:2130"},
		{"*:2130", "tcp", "[::]:2130"},
	}

	for _, item := range tests {
		addrs := []string{item.listen}
		parsed, err := parseListenAddress(addrs)
		if !assert.Nil(t, err, "parse: %s", item.listen) {
			continue
		}
		assert.Equal(t, item.network, parsed[0], "network: %s", item.listen)
		assert.Equal(t, item.rewritten, addrs[0], "address: %s", item.listen)
	}

	for _, listen := range []string{"", "localhost:2130", "127.0.0.1", "300.1.1.1:2130", "[::1:2130"} {
		_, err := parseListenAddress([]string{listen})
		assert.Equal(t, fault.ErrInvalidIpAddress, err, "invalid: %q", listen)
	}
}

func TestLimitN(t *testing.T) {
	limiter := rate.NewLimiter(1000, 10)

	assert.Nil(t, limit(limiter), "single")
	assert.Nil(t, limitN(limiter, 5, 10), "five")
	assert.Equal(t, fault.ErrInvalidCount, limitN(limiter, 0, 10), "zero")
	assert.Equal(t, fault.ErrInvalidCount, limitN(limiter, 11, 10), "above maximum")

	// more than the burst can never be reserved
	assert.Equal(t, fault.ErrRateLimiting, limitN(limiter, 20, 50), "above burst")
}

func TestListenerConnectionLimit(t *testing.T) {
	dir, err := ioutil.TempDir("", "hashledger-rpc")
	if !assert.Nil(t, err, "temp dir") {
		t.FailNow()
	}
	defer os.RemoveAll(dir)

	certificateFile, keyFile := makeCertificate(t, dir)
	certificate, _ := ioutil.ReadFile(certificateFile)
	key, _ := ioutil.ReadFile(keyFile)

	log := logger.New(fixtures.LogCategory)
	tlsConfig, fingerprint, err := getCertificate(log, "test", string(certificate), string(key))
	if !assert.Nil(t, err, "certificate") {
		t.FailNow()
	}
	assert.NotEqual(t, [32]byte{}, fingerprint, "fingerprint")

	server := rpc.NewServer()
	assert.Nil(t, server.Register(Add{}), "register")

	configuration := &Configuration{
		MaximumConnections: 1,
		Listen:             []string{"127.0.0.1:0"},
	}
	l, err := newListener(configuration, log, server, tlsConfig)
	if !assert.Nil(t, err, "new listener") {
		t.FailNow()
	}
	if !assert.Nil(t, l.Serve(), "serve") {
		t.FailNow()
	}
	defer l.Close()

	address := l.Addresses()[0]

	first := dial(t, address)
	defer first.Close()
	reply := 0
	assert.Nil(t, first.Call("Add.Add", &AddArg{A: 2, B: 3}, &reply), "first call")
	assert.Equal(t, 5, reply, "sum")
	assert.Equal(t, uint64(1), l.Connections(), "connections")

	conn, err := tls.Dial("tcp", address, &tls.Config{InsecureSkipVerify: true})
	if nil == err {
		second := jsonrpc.NewClient(conn)
		done := make(chan error, 1)
		go func() {
			done <- second.Call("Add.Add", &AddArg{A: 1, B: 1}, &reply)
		}()
		select {
		case err = <-done:
		case <-time.After(5 * time.Second):
			err = nil
			t.Error("second call not rejected")
		}
		second.Close()
	}
	assert.NotNil(t, err, "connection above limit")
}
