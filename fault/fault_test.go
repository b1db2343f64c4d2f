// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/hashledger/fault"
)

var (
	ErrArithmeticOne = fault.ArithmeticError("arithmetic one")
	ErrArithmeticTwo = fault.ArithmeticError("arithmetic two")
	ErrExistsOne     = fault.ExistsError("exists one ")
	ErrExistsTwo     = fault.ExistsError("exists two")
	ErrInvalidOne    = fault.InvalidError("invalid one")
	ErrInvalidTwo    = fault.InvalidError("invalid two")
	ErrNotFoundOne   = fault.NotFoundError("not found one")
	ErrNotFoundTwo   = fault.NotFoundError("not found two")
	ErrPermissionOne = fault.PermissionError("permission one")
	ErrPermissionTwo = fault.PermissionError("permission two")
	ErrProcessOne    = fault.ProcessError("process one")
	ErrProcessTwo    = fault.ProcessError("process two")
)

// test that the various classes are distinguishable
func TestClasses(t *testing.T) {
	errorList := []struct {
		err        error
		arithmetic bool
		exists     bool
		invalid    bool
		notFound   bool
		permission bool
		process    bool
	}{
		{ErrArithmeticOne, true, false, false, false, false, false},
		{ErrArithmeticTwo, true, false, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false, false},
		{ErrExistsTwo, false, true, false, false, false, false},
		{ErrInvalidOne, false, false, true, false, false, false},
		{ErrInvalidTwo, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, true, false, false},
		{ErrNotFoundTwo, false, false, false, true, false, false},
		{ErrPermissionOne, false, false, false, false, true, false},
		{ErrPermissionTwo, false, false, false, false, true, false},
		{ErrProcessOne, false, false, false, false, false, true},
		{ErrProcessTwo, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrArithmetic(err) != e.arithmetic {
			t.Errorf("%d: expected 'arithmetic' == %v for err = %v", i, e.arithmetic, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrPermission(err) != e.permission {
			t.Errorf("%d: expected 'permission' == %v for err = %v", i, e.permission, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}

// the ledger errors must be classified as documented
func TestLedgerErrorClasses(t *testing.T) {
	permission := []error{
		fault.ErrNotOwner,
		fault.ErrOnlyOwnerCanOperate,
	}
	for _, err := range permission {
		if !fault.IsErrPermission(err) {
			t.Errorf("%q is not a permission error", err)
		}
	}

	arithmetic := []error{
		fault.ErrCountOverflow,
		fault.ErrCountUnderflow,
		fault.ErrOverflowHappens,
		fault.ErrOwnedCountOverflow,
		fault.ErrUnderflowHappens,
	}
	for _, err := range arithmetic {
		if !fault.IsErrArithmetic(err) {
			t.Errorf("%q is not an arithmetic error", err)
		}
	}

	if !fault.IsErrExists(fault.ErrDuplicateIdentifier) {
		t.Errorf("%q is not an exists error", fault.ErrDuplicateIdentifier)
	}
	if !fault.IsErrNotFound(fault.ErrRecordNotFound) || !fault.IsErrNotFound(fault.ErrAccountNotExist) {
		t.Error("record/account absence is not a not found error")
	}
}
