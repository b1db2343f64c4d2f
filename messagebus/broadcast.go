// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// Message - a command and its binary parameters
type Message struct {
	Command    string   // type of packed data
	Parameters [][]byte // array of parameters
}

// BroadcastQueue - deliver every message to every listener
type BroadcastQueue struct {
	sync.RWMutex
	listeners []chan Message
}

// Bus - the process wide queues
var Bus = struct {
	Broadcast *BroadcastQueue
}{
	Broadcast: New(),
}

// New - an empty queue for callers that do not share the global bus
func New() *BroadcastQueue {
	return &BroadcastQueue{}
}

// Send - queue a message for all current listeners
//
// a listener whose channel is full misses the message
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	queue.RLock()
	defer queue.RUnlock()
	for _, listener := range queue.listeners {
		select {
		case listener <- m:
		default:
		}
	}
}

// Chan - register a new listener
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size < 0 {
		size = 0
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.listeners = append(queue.listeners, c)
	queue.Unlock()
	return c
}

// Release - close every listener channel
func (queue *BroadcastQueue) Release() {
	queue.Lock()
	defer queue.Unlock()
	for _, listener := range queue.listeners {
		close(listener)
	}
	queue.listeners = nil
}

// Listeners - number of registered listeners
func (queue *BroadcastQueue) Listeners() int {
	queue.RLock()
	defer queue.RUnlock()
	return len(queue.listeners)
}
