// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/chain"
	"github.com/bitmark-inc/hashledger/configuration"
	"github.com/bitmark-inc/hashledger/genesis"
	"github.com/bitmark-inc/hashledger/publish"
	"github.com/bitmark-inc/hashledger/rpc"
	"github.com/bitmark-inc/hashledger/spool"
	"github.com/bitmark-inc/hashledger/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublishPublicKeyFile  = "publish.public"
	defaultPublishPrivateKeyFile = "publish.private"

	defaultRPCCertificateFile = "rpc.crt"
	defaultRPCPrivateKeyFile  = "rpc.key"
	defaultRPCConnections     = 50

	defaultLevelDBDirectory = "data"
	defaultSpoolDirectory   = "spool"

	defaultLogDirectory = "log"
	defaultLogFile      = "hashledgerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

var defaultLogLevels = map[string]string{
	logger.DefaultTag: "critical",
}

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - the daemon's configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Chain         string                `gluamapper:"chain" json:"chain"`
	Seed          string                `gluamapper:"identifier_seed" json:"identifier_seed"`
	Database      DatabaseType          `gluamapper:"database" json:"database"`
	Genesis       genesis.Configuration `gluamapper:"genesis" json:"genesis"`
	Spool         spool.Configuration   `gluamapper:"spool" json:"spool"`
	Publishing    publish.Configuration `gluamapper:"publishing" json:"publishing"`
	RPC           rpc.Configuration     `gluamapper:"rpc" json:"rpc"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		Chain:         chain.Live,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      "",
		},

		Spool: spool.Configuration{
			Directory: defaultSpoolDirectory,
		},

		RPC: rpc.Configuration{
			MaximumConnections: defaultRPCConnections,
			Certificate:        defaultRPCCertificateFile,
			PrivateKey:         defaultRPCPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("chain: %q is not supported", options.Chain)
	}

	// one database per chain unless set explicitly
	if "" == options.Database.Name {
		options.Database.Name = options.Chain + ".leveldb"
	}

	if "" == options.Seed {
		options.Seed = options.Chain
	}

	// ensure absolute data directory
	switch options.DataDirectory {
	case "", "~":
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	case ".":
		options.DataDirectory = dataDirectory // same directory as the configuration file
	default:
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// directories always live under the data directory unless absolute
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Spool.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.ResolvePath(options.DataDirectory, *f)
	}

	// blank disables the file
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
		&options.RPC.Certificate,
		&options.RPC.PrivateKey,
	}
	for i := range options.Publishing.Subscribers {
		optionalAbsolute = append(optionalAbsolute, &options.Publishing.Subscribers[i])
	}
	for _, f := range optionalAbsolute {
		*f = util.ResolveOptionalPath(options.DataDirectory, *f)
	}

	// must be plain file names, then given the directory prefix
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.ResolvePath(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	return options, nil
}
