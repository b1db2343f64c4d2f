// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ArithmeticError GenericError
	ExistsError     GenericError
	InvalidError    GenericError
	NotFoundError   GenericError
	PermissionError GenericError
	ProcessError    GenericError
)

// ledger and registry errors - keep in alphabetic order
var (
	ErrAccountNotExist     = NotFoundError("account does not exist")
	ErrAmountTooLow        = InvalidError("amount too low")
	ErrCountOverflow       = ArithmeticError("overflow happens when records count increases")
	ErrCountUnderflow      = ArithmeticError("underflow happens when owned count decreases")
	ErrDuplicateIdentifier = ExistsError("record already exists")
	ErrNotOwner            = PermissionError("can only transfer your own record")
	ErrOnlyOwnerCanOperate = PermissionError("only token owner can operate")
	ErrOverflowHappens     = ArithmeticError("overflow happens")
	ErrOwnedCountOverflow  = ArithmeticError("overflow happens when owned count increases")
	ErrRecordNotFound      = NotFoundError("record does not exist")
	ErrSelfTransfer        = InvalidError("cannot transfer record to yourself")
	ErrUnderflowHappens    = ArithmeticError("underflow happens")
)

// infrastructure errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrCannotDecodeAccount    = InvalidError("cannot decode account")
	ErrCannotDecodePrivateKey = InvalidError("cannot decode private key")
	ErrCannotDecodeRecord     = InvalidError("cannot decode record")
	ErrCannotDecodeSeed       = InvalidError("cannot decode seed")
	ErrCertificateFileExists  = ExistsError("certificate file already exists")
	ErrChecksumMismatch       = InvalidError("checksum mismatch")
	ErrGenesisMismatch        = InvalidError("genesis does not match database")
	ErrInvalidCallKind        = InvalidError("invalid call kind")
	ErrInvalidChain           = InvalidError("invalid chain")
	ErrInvalidConfiguration   = InvalidError("configuration must return a table")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidCursor          = InvalidError("invalid cursor")
	ErrInvalidDigest          = InvalidError("invalid digest")
	ErrInvalidIpAddress       = InvalidError("invalid IP address")
	ErrInvalidKeyLength       = InvalidError("invalid key length")
	ErrInvalidKeyType         = InvalidError("invalid key type")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidPrivateKeyFile  = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile   = InvalidError("invalid public key file")
	ErrInvalidSeedHeader      = InvalidError("invalid seed header")
	ErrInvalidSeedLength      = InvalidError("invalid seed length")
	ErrInvalidSignature       = InvalidError("invalid signature")
	ErrInvalidSequence        = InvalidError("call sequence does not match caller")
	ErrInvalidStructPointer   = InvalidError("invalid struct pointer")
	ErrKeyFileAlreadyExists   = ExistsError("key file already exists")
	ErrMissingAccount         = InvalidError("call is missing an account")
	ErrMissingCaller          = InvalidError("call has no caller")
	ErrMissingParameters      = InvalidError("missing parameters")
	ErrNotInitialised         = NotFoundError("not initialised")
	ErrNotPrivateKey          = InvalidError("not private key")
	ErrNotPublicKey           = InvalidError("not public key")
	ErrNotTestAccount         = InvalidError("account is not a test account")
	ErrRateLimiting           = ProcessError("rate limiting")
	ErrReadOnly               = PermissionError("database is read only")
	ErrTestAccount            = InvalidError("test account not allowed on live chain")
	ErrTransactionInUse       = ProcessError("transaction already in use")
	ErrTruncatedCall          = InvalidError("truncated call")
	ErrTruncatedRecord        = InvalidError("truncated record")
	ErrWrongNetworkForKey     = InvalidError("wrong network for key")
)

// the error interface methods
func (e GenericError) Error() string    { return string(e) }
func (e ArithmeticError) Error() string { return string(e) }
func (e ExistsError) Error() string     { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e PermissionError) Error() string { return string(e) }
func (e ProcessError) Error() string    { return string(e) }

// IsErrArithmetic - checked arithmetic would have wrapped
func IsErrArithmetic(e error) bool { _, ok := e.(ArithmeticError); return ok }

// IsErrExists - the item is already present
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - the requested transition is not valid for the current state
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrNotFound - the item is absent
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrPermission - caller lacks the privilege required
func IsErrPermission(e error) bool { _, ok := e.(PermissionError); return ok }

// IsErrProcess - an infrastructure step failed
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }
