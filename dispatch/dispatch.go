// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dispatch - apply authenticated calls to the ledgers
//
// each call runs inside one storage transaction: any error aborts it,
// success commits it and only then are its notifications released
package dispatch

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/identifier"
	"github.com/bitmark-inc/hashledger/identity"
	"github.com/bitmark-inc/hashledger/ledger"
	"github.com/bitmark-inc/hashledger/registry"
	"github.com/bitmark-inc/hashledger/storage"
	"github.com/bitmark-inc/hashledger/util"
)

// Dispatcher - serialises calls against one database
type Dispatcher struct {
	sync.Mutex

	db        *storage.Database
	registry  *registry.Registry
	ledger    *ledger.Ledger
	generator identifier.Generator
	auth      identity.Authenticator
	sink      event.Sink
	log       *logger.L
}

// New - dispatcher with its collaborators
func New(db *storage.Database, generator identifier.Generator, auth identity.Authenticator, sink event.Sink) *Dispatcher {
	return &Dispatcher{
		db:        db,
		registry:  registry.New(),
		ledger:    ledger.New(),
		generator: generator,
		auth:      auth,
		sink:      sink,
		log:       logger.New("dispatch"),
	}
}

// Registry - for read-only queries
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Ledger - for read-only queries
func (d *Dispatcher) Ledger() *ledger.Ledger {
	return d.ledger
}

// Sequence - the sequence the next signed call from acc must carry
func Sequence(r storage.Reader, acc *account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.Sequence, acc.Bytes())
	return n
}

// DispatchSigned - dispatch with the origin taken from the call
func (d *Dispatcher) DispatchSigned(sc *SignedCall) error {
	origin := identity.Origin{
		Account:   sc.Caller,
		Sequence:  sc.Sequence,
		Signature: sc.Signature,
	}
	return d.Dispatch(origin, sc.Call)
}

// Dispatch - authenticate origin and apply exactly one operation
//
// a signed origin consumes its sequence in the same transaction as the
// operation, so each signed call applies at most once
func (d *Dispatcher) Dispatch(origin identity.Origin, call Call) error {
	if nil == call {
		return fault.ErrInvalidCallKind
	}

	var message Packed
	var err error
	if origin.IsSigned() {
		message, err = Message(call, origin.Sequence)
	} else {
		message, err = Pack(call)
	}
	if nil != err {
		return err
	}

	caller, err := d.auth.Authenticate(origin, message)
	if nil != err {
		d.log.Debugf("%s: authentication error: %s", call.Tag(), err)
		return err
	}

	d.Lock()
	defer d.Unlock()

	trx, err := d.db.Begin()
	if nil != err {
		d.log.Errorf("begin transaction error: %s", err)
		return err
	}

	batch := event.Batch{}
	if origin.IsSigned() {
		err = d.consumeSequence(trx, caller, origin.Sequence)
	}
	if nil == err {
		err = d.apply(trx, caller, call, &batch)
	}
	if nil != err {
		trx.Abort()
		d.log.Debugf("%s: caller: %s  rejected: %s", call.Tag(), caller, err)
		return err
	}

	err = trx.Commit()
	if nil != err {
		d.log.Criticalf("%s: commit error: %s", call.Tag(), err)
		return err
	}

	d.log.Infof("%s: caller: %s  events: %d", call.Tag(), caller, len(batch.Events()))
	batch.Flush(d.sink)
	return nil
}

func (d *Dispatcher) consumeSequence(trx storage.Transaction, caller *account.Account, sequence uint64) error {
	expected := Sequence(trx, caller)
	if sequence != expected {
		d.log.Warnf("caller: %s  sequence: %d  expected: %d", caller, sequence, expected)
		return fault.ErrInvalidSequence
	}
	next, ok := util.CheckedAdd(expected, 1)
	if !ok {
		return fault.ErrOverflowHappens
	}
	trx.PutN(storage.Pool.Sequence, caller.Bytes(), next)
	return nil
}

func (d *Dispatcher) apply(trx storage.Transaction, caller *account.Account, call Call, sink event.Sink) error {
	switch c := call.(type) {

	case CreateRecord:
		nonce := d.registry.Nonce(trx)
		record := &registry.Record{
			Id:              d.generator.Generate(nonce),
			HashPower:       c.HashPower,
			StartDate:       c.StartDate,
			EndDate:         c.EndDate,
			ServiceProvider: c.ServiceProvider,
		}
		err := d.registry.Create(trx, caller, record, sink)
		if nil != err {
			return err
		}
		return d.registry.IncrementNonce(trx)

	case TransferRecord:
		owner, found := d.registry.OwnerOf(trx, c.Id)
		if !found {
			return fault.ErrRecordNotFound
		}
		if !owner.Equal(caller) {
			return fault.ErrNotOwner
		}
		return d.registry.Transfer(trx, caller, c.To, c.Id, sink)

	case Issue:
		return d.ledger.Issue(trx, caller, sink)

	case SetBalance:
		return d.ledger.SetBalance(trx, caller, c.Account, c.Free, c.Reserved, sink)

	case TransferBalance:
		return d.ledger.Transfer(trx, caller, c.To, c.Amount, sink)

	case Reserve:
		return d.ledger.Reserve(trx, caller, c.Account, c.Amount, sink)

	case Unreserve:
		return d.ledger.Unreserve(trx, caller, c.Account, c.Amount, sink)

	default:
		return fault.ErrInvalidCallKind
	}
}
