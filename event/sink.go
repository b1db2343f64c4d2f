// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package event

import (
	"github.com/bitmark-inc/hashledger/messagebus"
)

//go:generate mockgen -source=sink.go -destination=mocks/sink.go -package=mocks

// Sink - receiver of notifications
type Sink interface {
	Deposit(Event)
}

// Batch - notifications held back until the call that produced them commits
type Batch struct {
	events []Event
}

// Deposit - buffer an event
func (b *Batch) Deposit(e Event) {
	b.events = append(b.events, e)
}

// Events - buffered events in deposit order
func (b *Batch) Events() []Event {
	return b.events
}

// Flush - pass everything buffered to sink and empty the batch
func (b *Batch) Flush(sink Sink) {
	for _, e := range b.events {
		sink.Deposit(e)
	}
	b.Reset()
}

// Reset - discard buffered events
func (b *Batch) Reset() {
	b.events = nil
}

// BusSink - forward notifications to a broadcast queue
type BusSink struct {
	Queue *messagebus.BroadcastQueue
}

// Deposit - send the event's command and parameters
func (s BusSink) Deposit(e Event) {
	s.Queue.Send(e.Command(), e.Parameters()...)
}

// Discard - a sink that drops everything
type Discard struct{}

// Deposit - ignore the event
func (Discard) Deposit(Event) {}
