// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spool - apply signed calls dropped into a directory
//
// every *.call file holds one JSON signed call; files present at the
// same time form one batch, applied in name order with the batch
// number as block height and the position as call index; each file
// is then renamed to *.done or *.failed
package spool

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/hashledger/dispatch"
	"github.com/bitmark-inc/hashledger/identifier"
	"github.com/bitmark-inc/hashledger/storage"
)

// file name suffixes
const (
	CallSuffix   = ".call"
	DoneSuffix   = ".done"
	FailedSuffix = ".failed"
)

const rescanInterval = 5 * time.Second

var heightKey = []byte{}

// Configuration - spool settings
type Configuration struct {
	Directory string `gluamapper:"directory" json:"directory"`
}

// Dispatcher - where calls are sent
type Dispatcher interface {
	DispatchSigned(sc *dispatch.SignedCall) error
}

// Spool - background process watching one directory
type Spool struct {
	log        *logger.L
	directory  string
	db         *storage.Database
	dispatcher Dispatcher
	position   *identifier.Position
	watcher    *fsnotify.Watcher
}

// New - watch directory, the position is updated before each call
func New(directory string, db *storage.Database, dispatcher Dispatcher, position *identifier.Position) (*Spool, error) {
	log := logger.New("spool")

	directory, err := filepath.Abs(filepath.Clean(directory))
	if nil != err {
		log.Errorf("directory: %q  error: %s", directory, err)
		return nil, err
	}
	if err := os.MkdirAll(directory, 0700); nil != err {
		log.Errorf("create directory: %q  error: %s", directory, err)
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher error: %s", err)
		return nil, err
	}
	if err := watcher.Add(directory); nil != err {
		log.Errorf("watch: %q  error: %s", directory, err)
		watcher.Close()
		return nil, err
	}

	return &Spool{
		log:        log,
		directory:  directory,
		db:         db,
		dispatcher: dispatcher,
		position:   position,
		watcher:    watcher,
	}, nil
}

// Height - number of batches applied so far
func Height(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.Height, heightKey)
	return n
}

// Run - process existing files then wait for new ones
func (s *Spool) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("watching: %q", s.directory)

	s.process()
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case e, ok := <-s.watcher.Events:
			if !ok {
				break loop
			}
			if isCallEvent(e) {
				log.Debugf("file event: %v", e)
				s.process()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)

		case <-time.After(rescanInterval):
			s.process()
		}
	}
	s.watcher.Close()
	log.Info("stopped")
}

func (s *Spool) process() {
	n, err := s.ProcessBatch()
	if nil != err {
		s.log.Errorf("batch error: %s", err)
	} else if n > 0 {
		s.log.Infof("processed: %d calls", n)
	}
}

func isCallEvent(e fsnotify.Event) bool {
	if !strings.HasSuffix(e.Name, CallSuffix) {
		return false
	}
	return 0 != e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename)
}

// ProcessBatch - apply every pending call file as one batch
//
// returns the number of files handled
func (s *Spool) ProcessBatch() (int, error) {
	names, err := s.pending()
	if nil != err || 0 == len(names) {
		return 0, err
	}

	height, err := s.nextHeight()
	if nil != err {
		return 0, err
	}
	s.position.Block = height

	for i, name := range names {
		s.position.Index = uint64(i)

		suffix := DoneSuffix
		if err := s.apply(name); nil != err {
			s.log.Warnf("call: %q  height: %d  index: %d  error: %s", filepath.Base(name), height, i, err)
			suffix = FailedSuffix
		}

		finalName := strings.TrimSuffix(name, CallSuffix) + suffix
		if err := os.Rename(name, finalName); nil != err {
			s.log.Criticalf("rename: %q  error: %s", name, err)
			return i, err
		}
	}
	return len(names), nil
}

// sorted names of *.call files
func (s *Spool) pending() ([]string, error) {
	infos, err := ioutil.ReadDir(s.directory)
	if nil != err {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() && strings.HasSuffix(info.Name(), CallSuffix) {
			names = append(names, filepath.Join(s.directory, info.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

// persist the incremented batch number
func (s *Spool) nextHeight() (uint64, error) {
	trx, err := s.db.Begin()
	if nil != err {
		return 0, err
	}
	height := Height(trx) + 1
	trx.PutN(storage.Pool.Height, heightKey, height)
	if err := trx.Commit(); nil != err {
		return 0, err
	}
	return height, nil
}

func (s *Spool) apply(name string) error {
	data, err := ioutil.ReadFile(name)
	if nil != err {
		return err
	}
	sc := &dispatch.SignedCall{}
	if err := json.Unmarshal(data, sc); nil != err {
		return err
	}
	return s.dispatcher.DispatchSigned(sc)
}

// Write - store a signed call so a running spool will pick it up
//
// the file is written under a temporary name and then renamed
func Write(directory string, name string, sc *dispatch.SignedCall) (string, error) {
	data, err := json.MarshalIndent(sc, "", "  ")
	if nil != err {
		return "", err
	}
	if !strings.HasSuffix(name, CallSuffix) {
		name += CallSuffix
	}
	fileName := filepath.Join(directory, name)
	temporary := fileName + ".tmp"
	if err := ioutil.WriteFile(temporary, data, 0600); nil != err {
		return "", err
	}
	if err := os.Rename(temporary, fileName); nil != err {
		os.Remove(temporary)
		return "", err
	}
	return fileName, nil
}
