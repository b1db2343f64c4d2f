// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/hashledger/chain"
)

type metadata struct {
	network     string
	testnet     bool
	verbose     bool
	spool       string
	connect     string
	database    string
	key         string
	sequence    uint64
	sequenceSet bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "hashledger-cli"
	app.Usage = "sign ledger calls and query a hashledgerd node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: chain.Local,
			Usage: " key network `NETWORK` [hashledger|testing|local]",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "",
			Usage:  " signing seed or private key `KEY`",
			EnvVar: "HASHLEDGER_KEY",
		},
		cli.StringFlag{
			Name:  "spool, s",
			Value: "spool",
			Usage: " daemon spool `DIR` for signed calls",
		},
		cli.StringFlag{
			Name:  "connect, C",
			Value: "",
			Usage: " running daemon's query server `HOST:PORT`",
		},
		cli.StringFlag{
			Name:  "database, d",
			Value: "",
			Usage: " stopped daemon's leveldb `DIR` for queries",
		},
		cli.Uint64Flag{
			Name:  "sequence, q",
			Usage: " signed call `SEQUENCE` (default: look it up)",
		},
	}

	accountFlag := cli.StringFlag{
		Name:  "account, a",
		Value: "",
		Usage: "*target `ACCOUNT`",
	}
	amountFlag := cli.Uint64Flag{
		Name:  "amount, m",
		Value: 0,
		Usage: "*token `AMOUNT`",
	}
	pageFlags := []cli.Flag{
		cli.Uint64Flag{
			Name:  "start",
			Value: 0,
			Usage: " first list position `N`",
		},
		cli.IntFlag{
			Name:  "count, c",
			Value: 20,
			Usage: " maximum items to list `COUNT`",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate key pair",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{},
			Action:    runGenerate,
		},
		{
			Name:      "create",
			Usage:     "create a hash power record owned by the signer",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "hash-power, p",
					Usage: "*contracted hash power `HASHES`",
				},
				cli.Uint64Flag{
					Name:  "start-date",
					Usage: "*contract start `TIMESTAMP`",
				},
				cli.Uint64Flag{
					Name:  "end-date",
					Usage: "*contract end `TIMESTAMP`",
				},
				cli.StringFlag{
					Name:  "provider, r",
					Value: "",
					Usage: "*service provider `ACCOUNT`",
				},
			},
			Action: runCreate,
		},
		{
			Name:      "transfer-record",
			Usage:     "transfer a record to another account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*record `ID`",
				},
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*receiving `ACCOUNT`",
				},
			},
			Action: runTransferRecord,
		},
		{
			Name:   "issue",
			Usage:  "credit the total supply to the token owner",
			Action: runIssue,
		},
		{
			Name:      "set-balance",
			Usage:     "overwrite the balances of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				accountFlag,
				cli.Uint64Flag{
					Name:  "free, f",
					Usage: " new free balance `AMOUNT`",
				},
				cli.Uint64Flag{
					Name:  "reserved, r",
					Usage: " new reserved balance `AMOUNT`",
				},
			},
			Action: runSetBalance,
		},
		{
			Name:      "pay",
			Usage:     "transfer free balance to another account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*receiving `ACCOUNT`",
				},
				amountFlag,
			},
			Action: runPay,
		},
		{
			Name:      "reserve",
			Usage:     "move free balance to reserved",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{accountFlag, amountFlag},
			Action:    runReserve,
		},
		{
			Name:      "unreserve",
			Usage:     "move reserved balance to free",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{accountFlag, amountFlag},
			Action:    runUnreserve,
		},
		{
			Name:      "record",
			Usage:     "show a record and its owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*record `ID`",
				},
			},
			Action: runRecord,
		},
		{
			Name:      "owner",
			Usage:     "show the current owner of a record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*record `ID`",
				},
			},
			Action: runOwner,
		},
		{
			Name:   "records",
			Usage:  "list all records in creation order",
			Flags:  pageFlags,
			Action: runRecords,
		},
		{
			Name:      "owned",
			Usage:     "list the records of an account",
			ArgsUsage: "\n   (* = required)",
			Flags:     append([]cli.Flag{accountFlag}, pageFlags...),
			Action:    runOwned,
		},
		{
			Name:      "balance",
			Usage:     "show free and reserved balances of an account",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{accountFlag},
			Action:    runBalance,
		},
		{
			Name:      "sequence",
			Usage:     "show the sequence for the next signed call of an account",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{accountFlag},
			Action:    runSequence,
		},
		{
			Name:   "supply",
			Usage:  "show token owner, total supply and record count",
			Action: runSupply,
		},
		{
			Name:   "info",
			Usage:  "show chain, mode, height and version of the node",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display hashledger-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		network := c.GlobalString("network")
		switch network {
		case chain.Live, "live":
			network = chain.Live
		case chain.Testing, "test":
			network = chain.Testing
		case chain.Local, "regression":
			network = chain.Local
		default:
			return fmt.Errorf("network: %q can only be %s/%s/%s", network, chain.Live, chain.Testing, chain.Local)
		}

		if verbose {
			fmt.Fprintf(e, "network: %s\n", network)
		}

		c.App.Metadata["config"] = &metadata{
			network:     network,
			testnet:     chain.IsTesting(network),
			verbose:     verbose,
			spool:       c.GlobalString("spool"),
			connect:     c.GlobalString("connect"),
			database:    c.GlobalString("database"),
			key:         c.GlobalString("key"),
			sequence:    c.GlobalUint64("sequence"),
			sequenceSet: c.GlobalIsSet("sequence"),
			e:           e,
			w:           w,
		}
		return nil
	}

	return app
}
