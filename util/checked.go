// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// CheckedAdd - sum of a and b, false if the sum wraps
func CheckedAdd(a uint64, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// CheckedSub - difference a - b, false if b > a
func CheckedSub(a uint64, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
