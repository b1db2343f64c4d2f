// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a fan-out queue carrying ledger notifications
// from the dispatcher to any number of listeners
package messagebus
