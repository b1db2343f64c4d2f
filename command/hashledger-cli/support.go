// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitmark-inc/hashledger/account"
	"github.com/bitmark-inc/hashledger/digest"
	"github.com/bitmark-inc/hashledger/dispatch"
	"github.com/bitmark-inc/hashledger/rpc"
	"github.com/bitmark-inc/hashledger/spool"
)

type submitted struct {
	File string               `json:"file"`
	Call *dispatch.SignedCall `json:"call"`
}

func checkAccount(name string, value string) (*account.Account, error) {
	if "" == value {
		return nil, fmt.Errorf("%s is required", name)
	}
	acc, err := account.AccountFromBase58(value)
	if nil != err {
		return nil, fmt.Errorf("%s: %q error: %s", name, value, err)
	}
	return acc, nil
}

func checkDigest(name string, value string) (digest.Digest, error) {
	if "" == value {
		return digest.Digest{}, fmt.Errorf("%s is required", name)
	}
	d, err := digest.FromString(value)
	if nil != err {
		return digest.Digest{}, fmt.Errorf("%s: %q error: %s", name, value, err)
	}
	return d, nil
}

// the key can be either a seed or a base58 private key
func signingKey(m *metadata) (*account.PrivateKey, error) {
	if "" == m.key {
		return nil, fmt.Errorf("signing key is required")
	}
	privateKey, err := account.PrivateKeyFromBase58Seed(m.key)
	if nil == err {
		return privateKey, nil
	}
	privateKey, err = account.PrivateKeyFromBase58(m.key)
	if nil != err {
		return nil, err
	}
	return privateKey, nil
}

// sign a call and drop it in the spool directory
func submit(m *metadata, call dispatch.Call) error {
	privateKey, err := signingKey(m)
	if nil != err {
		return err
	}

	if m.testnet != privateKey.Account().IsTesting() {
		return fmt.Errorf("signing key does not belong to network: %s", m.network)
	}

	sequence, err := nextSequence(m, privateKey.Account())
	if nil != err {
		return err
	}

	sc := &dispatch.SignedCall{Sequence: sequence, Call: call}
	if err := sc.Sign(privateKey); nil != err {
		return err
	}

	name := fmt.Sprintf("%020d-%s", time.Now().UTC().UnixNano(), call.Tag())
	fileName, err := spool.Write(m.spool, name, sc)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "wrote: %q\n", fileName)
	}
	return output(m, submitted{File: fileName, Call: sc})
}

// explicit --sequence, otherwise ask the daemon or read the database
func nextSequence(m *metadata, acc *account.Account) (uint64, error) {
	if m.sequenceSet {
		return m.sequence, nil
	}
	if "" == m.connect && "" == m.database {
		return 0, fmt.Errorf("sequence is required: use --sequence, --connect or --database")
	}

	client, err := newClient(m)
	if nil != err {
		return 0, err
	}
	defer client.Close()

	reply := rpc.SequenceReply{}
	err = client.Call("Ledger.Sequence", &rpc.AccountArguments{Account: acc}, &reply)
	if nil != err {
		return 0, err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "sequence: %d\n", reply.Sequence)
	}
	return reply.Sequence, nil
}

// indented JSON on the command's output
func output(m *metadata, message interface{}) error {
	encoder := json.NewEncoder(m.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(message)
}
