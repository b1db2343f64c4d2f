// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/background"
	"github.com/bitmark-inc/hashledger/dispatch"
	"github.com/bitmark-inc/hashledger/event"
	"github.com/bitmark-inc/hashledger/genesis"
	"github.com/bitmark-inc/hashledger/identifier"
	"github.com/bitmark-inc/hashledger/identity"
	"github.com/bitmark-inc/hashledger/messagebus"
	"github.com/bitmark-inc/hashledger/mode"
	"github.com/bitmark-inc/hashledger/publish"
	"github.com/bitmark-inc/hashledger/rpc"
	"github.com/bitmark-inc/hashledger/spool"
	"github.com/bitmark-inc/hashledger/storage"
	"github.com/bitmark-inc/hashledger/zmqutil"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Chain)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// start the data storage
	log.Info("initialise storage")
	db, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer db.Close()

	// data commands need the database but no background processes
	if len(arguments) > 0 && processDataCommand(log, arguments, theConfiguration, db) {
		return
	}

	log.Info("apply genesis")
	applied, err := genesis.Apply(db, &theConfiguration.Genesis)
	if nil != err {
		log.Criticalf("genesis error: %s", err)
		exitwithstatus.Message("genesis error: %s", err)
	}
	if applied {
		log.Infof("genesis applied: token owner: %s  total supply: %d", theConfiguration.Genesis.TokenOwner, theConfiguration.Genesis.TotalSupply)
	}

	// start ZeroMQ authentication
	if err = zmqutil.StartAuthentication(); nil != err {
		log.Criticalf("zmq authentication error: %s", err)
		exitwithstatus.Message("zmq authentication error: %s", err)
	}

	log.Info("initialise publish")
	err = publish.Initialise(&theConfiguration.Publishing, messagebus.Bus.Broadcast)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	position := &identifier.Position{}
	generator := identifier.New([]byte(theConfiguration.Seed), position)
	authenticator := identity.Signed{Testing: mode.IsTesting()}
	sink := event.BusSink{Queue: messagebus.Bus.Broadcast}

	dispatcher := dispatch.New(db, generator, authenticator, sink)

	log.Info("initialise spool")
	sp, err := spool.New(theConfiguration.Spool.Directory, db, dispatcher, position)
	if nil != err {
		log.Criticalf("spool initialise error: %s", err)
		exitwithstatus.Message("spool initialise error: %s", err)
	}

	processes := background.Start(background.Processes{sp}, nil)

	log.Info("initialise rpc")
	err = rpc.Initialise(&theConfiguration.RPC, db, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		processes.Stop()
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	mode.Set(mode.Normal)
	log.Infof("running: chain: %s  height: %d", mode.ChainName(), spool.Height(db))

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)

	processes.Stop()
}
