// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/messagebus"
	"github.com/bitmark-inc/hashledger/zmqutil"
)

const (
	publisherZapDomain = "publisher"
	queueSize          = 1000
)

// Publisher - background process draining a broadcast queue onto a PUB socket
type Publisher struct {
	log    *logger.L
	socket *zmq.Socket
	queue  <-chan messagebus.Message
}

// New - bind the endpoints and register as a queue listener
//
// subscribers restricts CURVE clients to those public keys
func New(endpoints []string, privateKey []byte, publicKey []byte, subscribers [][]byte, queue *messagebus.BroadcastQueue) (*Publisher, error) {
	log := logger.New("publisher")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	socket, err := zmqutil.NewPublisher(log, publisherZapDomain, privateKey, publicKey, subscribers, endpoints)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}

	return &Publisher{
		log:    log,
		socket: socket,
		queue:  queue.Chan(queueSize),
	}, nil
}

// Run - send each message as [command, parameters…] until shutdown
func (pub *Publisher) Run(args interface{}, shutdown <-chan struct{}) {
	log := pub.log

	log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-pub.queue:
			if !ok {
				break loop
			}
			log.Debugf("sending: %s  data: %x", item.Command, item.Parameters)
			if err := pub.send(item); nil != err {
				log.Errorf("send: %s  error: %s", item.Command, err)
			}
		}
	}
	pub.socket.Close()
	log.Info("stopped")
}

func (pub *Publisher) send(item messagebus.Message) error {
	flags := zmq.DONTWAIT
	if 0 != len(item.Parameters) {
		flags |= zmq.SNDMORE
	}
	_, err := pub.socket.Send(item.Command, flags)
	if nil != err {
		return err
	}

	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		if i == last {
			_, err = pub.socket.SendBytes(p, zmq.DONTWAIT)
		} else {
			_, err = pub.socket.SendBytes(p, zmq.SNDMORE|zmq.DONTWAIT)
		}
		if nil != err {
			return err
		}
	}
	return nil
}
