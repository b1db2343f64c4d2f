// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/hashledger/dispatch"
)

func runCreate(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	provider, err := checkAccount("provider", c.String("provider"))
	if nil != err {
		return err
	}
	hashPower := c.Uint64("hash-power")
	if 0 == hashPower {
		return fmt.Errorf("hash power is required")
	}
	startDate := c.Uint64("start-date")
	endDate := c.Uint64("end-date")
	if endDate < startDate {
		return fmt.Errorf("end date: %d is before start date: %d", endDate, startDate)
	}

	return submit(m, dispatch.CreateRecord{
		HashPower:       hashPower,
		StartDate:       startDate,
		EndDate:         endDate,
		ServiceProvider: provider,
	})
}

func runTransferRecord(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := checkDigest("id", c.String("id"))
	if nil != err {
		return err
	}
	to, err := checkAccount("receiver", c.String("receiver"))
	if nil != err {
		return err
	}

	return submit(m, dispatch.TransferRecord{To: to, Id: id})
}

func runIssue(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	return submit(m, dispatch.Issue{})
}

func runSetBalance(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}

	return submit(m, dispatch.SetBalance{
		Account:  acc,
		Free:     c.Uint64("free"),
		Reserved: c.Uint64("reserved"),
	})
}

func runPay(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	to, err := checkAccount("receiver", c.String("receiver"))
	if nil != err {
		return err
	}

	return submit(m, dispatch.TransferBalance{To: to, Amount: c.Uint64("amount")})
}

func runReserve(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}

	return submit(m, dispatch.Reserve{Account: acc, Amount: c.Uint64("amount")})
}

func runUnreserve(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	acc, err := checkAccount("account", c.String("account"))
	if nil != err {
		return err
	}

	return submit(m, dispatch.Unreserve{Account: acc, Amount: c.Uint64("amount")})
}
