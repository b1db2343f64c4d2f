// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"encoding/json"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/fault"
	"github.com/bitmark-inc/hashledger/util"
)

// TagType - type code for calls
type TagType uint64

// enumerate the possible call types
// this is encoded a Varint64 at start of the packed call
const (
	NullTag            = TagType(iota)
	CreateRecordTag    = TagType(iota)
	TransferRecordTag  = TagType(iota)
	IssueTag           = TagType(iota)
	SetBalanceTag      = TagType(iota)
	TransferBalanceTag = TagType(iota)
	ReserveTag         = TagType(iota)
	UnreserveTag       = TagType(iota)

	// this item must be last
	InvalidTag = TagType(iota)
)

var tagNames = map[TagType]string{
	CreateRecordTag:    "create_record",
	TransferRecordTag:  "transfer_record",
	IssueTag:           "issue",
	SetBalanceTag:      "set_balance",
	TransferBalanceTag: "transfer_balance",
	ReserveTag:         "reserve",
	UnreserveTag:       "unreserve",
}

// String - the JSON kind name
func (tag TagType) String() string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "invalid"
}

// TagFromName - inverse of String
func TagFromName(name string) (TagType, error) {
	for tag, n := range tagNames {
		if n == name {
			return tag, nil
		}
	}
	return NullTag, fault.ErrInvalidCallKind
}

// Call - one of the operations below
type Call interface {
	Tag() TagType
}

// Packed - binary form of a call, the message a caller signs
type Packed []byte

// CreateRecord - mint a hash power record owned by the caller
type CreateRecord struct {
	HashPower       uint64           `json:"hash_power"`
	StartDate       uint64           `json:"start_date"`
	EndDate         uint64           `json:"end_date"`
	ServiceProvider *account.Account `json:"service_provider"`
}

// TransferRecord - give one of the caller's records to another account
type TransferRecord struct {
	To *account.Account `json:"to"`
	Id digest.Digest    `json:"id"`
}

// Issue - token owner receives the total supply
type Issue struct{}

// SetBalance - token owner overwrites an account's balances
type SetBalance struct {
	Account  *account.Account `json:"account"`
	Free     uint64           `json:"free"`
	Reserved uint64           `json:"reserved"`
}

// TransferBalance - pay from the caller's free balance
type TransferBalance struct {
	To     *account.Account `json:"to"`
	Amount uint64           `json:"amount"`
}

// Reserve - token owner moves free balance to reserved
type Reserve struct {
	Account *account.Account `json:"account"`
	Amount  uint64           `json:"amount"`
}

// Unreserve - token owner moves reserved balance to free
type Unreserve struct {
	Account *account.Account `json:"account"`
	Amount  uint64           `json:"amount"`
}

// Tag - call type codes
func (CreateRecord) Tag() TagType    { return CreateRecordTag }
func (TransferRecord) Tag() TagType  { return TransferRecordTag }
func (Issue) Tag() TagType           { return IssueTag }
func (SetBalance) Tag() TagType      { return SetBalanceTag }
func (TransferBalance) Tag() TagType { return TransferBalanceTag }
func (Reserve) Tag() TagType         { return ReserveTag }
func (Unreserve) Tag() TagType       { return UnreserveTag }

// Pack - tag followed by the fields in declaration order
//
// accounts are length prefixed, identifiers are raw 32 bytes and
// numbers are Varint64
func Pack(call Call) (Packed, error) {
	message := util.ToVarint64(uint64(call.Tag()))

	switch c := call.(type) {
	case CreateRecord:
		if c.ServiceProvider.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = append(message, util.ToVarint64(c.HashPower)...)
		message = append(message, util.ToVarint64(c.StartDate)...)
		message = append(message, util.ToVarint64(c.EndDate)...)
		message = util.AppendBytes(message, c.ServiceProvider.Bytes())

	case TransferRecord:
		if c.To.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = util.AppendBytes(message, c.To.Bytes())
		message = append(message, c.Id[:]...)

	case Issue:

	case SetBalance:
		if c.Account.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = util.AppendBytes(message, c.Account.Bytes())
		message = append(message, util.ToVarint64(c.Free)...)
		message = append(message, util.ToVarint64(c.Reserved)...)

	case TransferBalance:
		if c.To.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = util.AppendBytes(message, c.To.Bytes())
		message = append(message, util.ToVarint64(c.Amount)...)

	case Reserve:
		if c.Account.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = util.AppendBytes(message, c.Account.Bytes())
		message = append(message, util.ToVarint64(c.Amount)...)

	case Unreserve:
		if c.Account.IsZero() {
			return nil, fault.ErrMissingAccount
		}
		message = util.AppendBytes(message, c.Account.Bytes())
		message = append(message, util.ToVarint64(c.Amount)...)

	default:
		return nil, fault.ErrInvalidCallKind
	}
	return message, nil
}

// unpacking state, the first error sticks
type reader struct {
	buffer []byte
	n      int
	err    error
}

func (r *reader) varint() uint64 {
	if nil != r.err {
		return 0
	}
	value, count := util.FromVarint64(r.buffer[r.n:])
	if 0 == count {
		r.err = fault.ErrTruncatedCall
		return 0
	}
	r.n += count
	return value
}

func (r *reader) account() *account.Account {
	if nil != r.err {
		return nil
	}
	data, count := util.FromBytes(r.buffer[r.n:])
	if 0 == count {
		r.err = fault.ErrTruncatedCall
		return nil
	}
	r.n += count
	acc, err := account.AccountFromBytes(data)
	if nil != err {
		r.err = err
		return nil
	}
	return acc
}

func (r *reader) digest() digest.Digest {
	d := digest.Digest{}
	if nil != r.err {
		return d
	}
	if len(r.buffer)-r.n < digest.Length {
		r.err = fault.ErrTruncatedCall
		return d
	}
	copy(d[:], r.buffer[r.n:])
	r.n += digest.Length
	return d
}

// Unpack - decode a packed call
//
// returns the call and the number of bytes consumed
func (record Packed) Unpack() (Call, int, error) {
	r := &reader{buffer: record}

	tag := TagType(r.varint())
	if nil != r.err {
		return nil, 0, r.err
	}

	var call Call
	switch tag {
	case CreateRecordTag:
		c := CreateRecord{}
		c.HashPower = r.varint()
		c.StartDate = r.varint()
		c.EndDate = r.varint()
		c.ServiceProvider = r.account()
		call = c

	case TransferRecordTag:
		c := TransferRecord{}
		c.To = r.account()
		c.Id = r.digest()
		call = c

	case IssueTag:
		call = Issue{}

	case SetBalanceTag:
		c := SetBalance{}
		c.Account = r.account()
		c.Free = r.varint()
		c.Reserved = r.varint()
		call = c

	case TransferBalanceTag:
		c := TransferBalance{}
		c.To = r.account()
		c.Amount = r.varint()
		call = c

	case ReserveTag:
		c := Reserve{}
		c.Account = r.account()
		c.Amount = r.varint()
		call = c

	case UnreserveTag:
		c := Unreserve{}
		c.Account = r.account()
		c.Amount = r.varint()
		call = c

	default:
		return nil, 0, fault.ErrInvalidCallKind
	}

	if nil != r.err {
		return nil, 0, r.err
	}
	return call, r.n, nil
}

// Message - the bytes signed for a call: the packed call followed by
// Varint64 of the caller's sequence
func Message(call Call, sequence uint64) (Packed, error) {
	packed, err := Pack(call)
	if nil != err {
		return nil, err
	}
	return append(packed, util.ToVarint64(sequence)...), nil
}

// SignedCall - a call with the caller's account, sequence and the
// signature over Message(call, sequence)
type SignedCall struct {
	Caller    *account.Account
	Sequence  uint64
	Signature account.Signature
	Call      Call
}

type signedCallJSON struct {
	Kind      string            `json:"kind"`
	Caller    *account.Account  `json:"caller"`
	Sequence  uint64            `json:"sequence"`
	Signature account.Signature `json:"signature,omitempty"`
	Call      json.RawMessage   `json:"call"`
}

// MarshalJSON - flatten with a kind discriminator
func (sc SignedCall) MarshalJSON() ([]byte, error) {
	if nil == sc.Call {
		return nil, fault.ErrInvalidCallKind
	}
	call, err := json.Marshal(sc.Call)
	if nil != err {
		return nil, err
	}
	return json.Marshal(signedCallJSON{
		Kind:      sc.Call.Tag().String(),
		Caller:    sc.Caller,
		Sequence:  sc.Sequence,
		Signature: sc.Signature,
		Call:      call,
	})
}

// UnmarshalJSON - select the call type from kind
func (sc *SignedCall) UnmarshalJSON(data []byte) error {
	aux := signedCallJSON{}
	err := json.Unmarshal(data, &aux)
	if nil != err {
		return err
	}

	tag, err := TagFromName(aux.Kind)
	if nil != err {
		return err
	}

	var call Call
	switch tag {
	case CreateRecordTag:
		c := CreateRecord{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	case TransferRecordTag:
		c := TransferRecord{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	case IssueTag:
		call = Issue{}
	case SetBalanceTag:
		c := SetBalance{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	case TransferBalanceTag:
		c := TransferBalance{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	case ReserveTag:
		c := Reserve{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	case UnreserveTag:
		c := Unreserve{}
		err = unmarshalCall(aux.Call, &c)
		call = c
	}
	if nil != err {
		return err
	}

	sc.Caller = aux.Caller
	sc.Sequence = aux.Sequence
	sc.Signature = aux.Signature
	sc.Call = call
	return nil
}

func unmarshalCall(data json.RawMessage, v interface{}) error {
	if 0 == len(data) {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Message - the bytes the caller signs
func (sc *SignedCall) Message() (Packed, error) {
	if nil == sc.Call {
		return nil, fault.ErrInvalidCallKind
	}
	return Message(sc.Call, sc.Sequence)
}

// Sign - fill in caller and signature from a private key, the
// sequence must already be set
func (sc *SignedCall) Sign(privateKey *account.PrivateKey) error {
	message, err := sc.Message()
	if nil != err {
		return err
	}
	sc.Caller = privateKey.Account()
	sc.Signature = privateKey.Sign(message)
	return nil
}
