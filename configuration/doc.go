// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is a Lua chunk returning a table; most of base Lua is
// available so os.getenv can supply values and arg[0] holds the
// file name
package configuration
