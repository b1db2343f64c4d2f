// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/fault"
)

type listener struct {
	sync.Mutex

	log            *logger.L
	server         *rpc.Server
	count          uint64
	maxConnections uint64
	tlsConfig      *tls.Config
	ipType         []string
	listen         []string
	listeners      []net.Listener
	done           sync.WaitGroup
}

func newListener(configuration *Configuration, log *logger.L, server *rpc.Server, tlsConfig *tls.Config) (*listener, error) {
	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Error("missing listen")
		return nil, fault.ErrMissingParameters
	}

	listen := make([]string, len(configuration.Listen))
	copy(listen, configuration.Listen)

	ipType, err := parseListenAddress(listen)
	if nil != err {
		log.Errorf("listen error: %s", err)
		return nil, err
	}

	return &listener{
		log:            log,
		server:         server,
		maxConnections: configuration.MaximumConnections,
		tlsConfig:      tlsConfig,
		ipType:         ipType,
		listen:         listen,
	}, nil
}

// Serve - start an accept loop for each listen address
func (l *listener) Serve() error {
	l.Lock()
	defer l.Unlock()

	for i, listen := range l.listen {
		l.log.Infof("starting RPC server: %s", listen)
		socket, err := tls.Listen(l.ipType[i], listen, l.tlsConfig)
		if nil != err {
			l.log.Errorf("rpc server listen error: %s", err)
			return err
		}
		l.listeners = append(l.listeners, socket)

		l.done.Add(1)
		go l.accept(socket)
	}
	return nil
}

// Close - stop all accept loops, open connections finish their
// current request
func (l *listener) Close() {
	l.Lock()
	for _, socket := range l.listeners {
		_ = socket.Close()
	}
	l.listeners = nil
	l.Unlock()

	l.done.Wait()
}

// Addresses - bound addresses, useful when listening on port zero
func (l *listener) Addresses() []string {
	l.Lock()
	defer l.Unlock()

	addresses := make([]string, 0, len(l.listeners))
	for _, socket := range l.listeners {
		addresses = append(addresses, socket.Addr().String())
	}
	return addresses
}

// Connections - number of currently served connections
func (l *listener) Connections() uint64 {
	return atomic.LoadUint64(&l.count)
}

func (l *listener) accept(socket net.Listener) {
	defer l.done.Done()

	for {
		conn, err := socket.Accept()
		if nil != err {
			l.log.Infof("accept terminated: %s", err)
			break
		}
		if atomic.AddUint64(&l.count, 1) <= l.maxConnections {
			go func() {
				l.server.ServeCodec(jsonrpc.NewServerCodec(conn))
				_ = conn.Close()
				atomic.AddUint64(&l.count, ^uint64(0))
			}()
		} else {
			atomic.AddUint64(&l.count, ^uint64(0))
			l.log.Warnf("connection limit: %d reached, rejecting: %s", l.maxConnections, conn.RemoteAddr())
			_ = conn.Close()
		}
	}
}

// rewrite "*:PORT" to "[::]:PORT" in place and return the network for
// each address
func parseListenAddress(addrs []string) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		if "" == listen {
			return nil, fault.ErrInvalidIpAddress
		}
		host, port, err := net.SplitHostPort(listen)
		if nil != err {
			return nil, fault.ErrInvalidIpAddress
		}
		if "" == port {
			return nil, fault.ErrInvalidIpAddress
		}

		switch {
		case "*" == host:
			// assume this listens on both tcp4 and tcp6
			addrs[i] = "[::]:" + port
			host = "::"
			parsed[i] = "tcp"
		case strings.HasPrefix(listen, "["):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			return nil, fault.ErrInvalidIpAddress
		}
	}

	return parsed, nil
}
