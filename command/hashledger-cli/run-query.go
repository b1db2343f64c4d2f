// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/hashledger/rpc"
)

// run one query method and print its reply
func query(c *cli.Context, method string, arguments interface{}, reply interface{}) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := newClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	err = client.Call(method, arguments, reply)
	if nil != err {
		return err
	}
	return output(m, reply)
}

func runRecord(c *cli.Context) error {
	id, err := checkDigest("id", c.String("id"))
	if nil != err {
		return err
	}
	return query(c, "Records.Get", &rpc.RecordArguments{Id: id}, &rpc.RecordReply{})
}

func runOwner(c *cli.Context) error {
	id, err := checkDigest("id", c.String("id"))
	if nil != err {
		return err
	}
	return query(c, "Records.Owner", &rpc.RecordArguments{Id: id}, &rpc.OwnerReply{})
}

func runRecords(c *cli.Context) error {
	arguments := &rpc.ListArguments{
		Start: c.Uint64("start"),
		Count: c.Int("count"),
	}
	return query(c, "Records.List", arguments, &rpc.ListReply{})
}

func runOwned(c *cli.Context) error {
	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}
	arguments := &rpc.OwnedArguments{
		Owner: acc,
		Start: c.Uint64("start"),
		Count: c.Int("count"),
	}
	return query(c, "Records.Owned", arguments, &rpc.OwnedReply{})
}

func runBalance(c *cli.Context) error {
	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}
	return query(c, "Ledger.Balance", &rpc.AccountArguments{Account: acc}, &rpc.BalanceReply{})
}

func runSequence(c *cli.Context) error {
	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}
	return query(c, "Ledger.Sequence", &rpc.AccountArguments{Account: acc}, &rpc.SequenceReply{})
}

func runSupply(c *cli.Context) error {
	return query(c, "Ledger.Supply", &rpc.SupplyArguments{}, &rpc.SupplyReply{})
}

func runInfo(c *cli.Context) error {
	return query(c, "Node.Info", &rpc.InfoArguments{}, &rpc.InfoReply{})
}
