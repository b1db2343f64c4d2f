// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/hashledger/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Records         *PoolHandle `prefix:"R"`
	RecordOwner     *PoolHandle `prefix:"O"`
	AllRecords      *PoolHandle `prefix:"A"`
	AllRecordsIndex *PoolHandle `prefix:"I"`
	AllRecordsCount *PoolHandle `prefix:"C"`
	OwnedRecords    *PoolHandle `prefix:"L"`
	OwnedIndex      *PoolHandle `prefix:"D"`
	OwnedCount      *PoolHandle `prefix:"N"`
	Nonce           *PoolHandle `prefix:"X"`
	Sequence        *PoolHandle `prefix:"E"`
	FreeBalance     *PoolHandle `prefix:"F"`
	ReservedBalance *PoolHandle `prefix:"Q"`
	TotalSupply     *PoolHandle `prefix:"S"`
	TokenOwner      *PoolHandle `prefix:"W"`
	Height          *PoolHandle `prefix:"H"`
	Genesis         *PoolHandle `prefix:"G"`
	TestData        *PoolHandle `prefix:"Z"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

func init() {
	if err := setupPools(&Pool); nil != err {
		panic(err)
	}
}

// fill each field from its prefix tag
func setupPools(p interface{}) error {
	poolValue := reflect.ValueOf(p)
	if reflect.Ptr != poolValue.Kind() || reflect.Struct != poolValue.Elem().Kind() {
		return fault.ErrInvalidStructPointer
	}
	poolValue = poolValue.Elem()
	poolType := poolValue.Type()

	seen := make(map[byte]string)
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}
		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s reuses prefix: %q of: %s", fieldInfo.Name, prefixTag, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}
		handle := &PoolHandle{
			prefix: prefix,
			limit:  limit,
		}
		poolValue.Field(i).Set(reflect.ValueOf(handle))
	}
	return nil
}

// Database - one LevelDB database holding every pool
type Database struct {
	sync.RWMutex
	db       *leveldb.DB
	access   Access
	trx      Transaction
	readOnly bool
	log      *logger.L
}

// Open - open (or create) a database file
func Open(name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return newDatabase(db, readOnly)
}

// OpenMemory - a database that lives only as long as the process
func OpenMemory() (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newDatabase(db, ReadWrite)
}

func newDatabase(db *leveldb.DB, readOnly bool) (*Database, error) {
	log := logger.New("storage")

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	switch {
	case version > currentDBVersion:
		db.Close()
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)

	case 0 == version && readOnly:
		db.Close()
		return nil, fault.ErrNotInitialised

	case 0 == version:
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
		log.Infof("initialised empty database at version: %d", currentDBVersion)
	}

	access := newAccess(db)
	return &Database{
		db:       db,
		access:   access,
		trx:      newTransaction(access),
		readOnly: readOnly,
		log:      log,
	}, nil
}

// Close - release the database
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()
	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
	d.log.Flush()
}

// Begin - start the single write transaction
func (d *Database) Begin() (Transaction, error) {
	if d.readOnly {
		return nil, fault.ErrReadOnly
	}
	err := d.access.Begin()
	if nil != err {
		return nil, err
	}
	return d.trx, nil
}

// Get - read committed data
//
// this returns the actual element - copy the result if it must be preserved
func (d *Database) Get(p *PoolHandle, key []byte) []byte {
	d.RLock()
	defer d.RUnlock()
	if nil == d.db {
		return nil
	}
	value, err := d.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("database.Get", err)
	return value
}

// GetN - read committed data as a big endian uint64
//
// second parameter is false if record was not found
func (d *Database) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	buffer := d.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	return decodeN(key, buffer), true
}

// Has - check if a key exists in committed data
func (d *Database) Has(p *PoolHandle, key []byte) bool {
	d.RLock()
	defer d.RUnlock()
	if nil == d.db {
		return false
	}
	found, err := d.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("database.Has", err)
	return found
}

func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}
