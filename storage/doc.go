// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger state
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++        = concatenation of byte data
// 3. id        = record identifier as 32 byte SHA3-256 digest
// 4. position  = big endian uint64 (8 bytes)
// 5. count     = big endian uint64 (8 bytes)
// 6. account   = account.Bytes() (key variant ++ public key)
// 7. balance   = big endian uint64 (8 bytes)
//
// Records:
//
//   R ++ id                    - record body
//                                data: packed record
//   O ++ id                    - current owner
//                                data: account
//
// Global enumeration:
//
//   A ++ position              - dense list of every record
//                                data: id
//   I ++ id                    - position in global list
//                                data: position
//   C                          - number of records
//                                data: count
//
// Owned enumeration:
//
//   L ++ account ++ position   - dense list of records held by account
//                                data: id
//   D ++ id                    - position in the owner's list
//                                data: position
//   N ++ account               - number of records held by account
//                                data: count
//
// Identifier generation:
//
//   X                          - nonce mixed into new record identifiers
//                                data: count
//
// Callers:
//
//   E ++ account               - sequence the next signed call must carry
//                                data: count
//
// Balances:
//
//   F ++ account               - free balance
//                                data: balance
//   Q ++ account               - reserved balance
//                                data: balance
//   S                          - total supply
//                                data: balance
//   W                          - token owner
//                                data: account
//
// Chain:
//
//   H                          - number of call batches applied
//                                data: count
//   G                          - digest of the applied genesis
//                                data: id
//
// Testing:
//
//   Z ++ key                   - testing data
package storage
