// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// ResolvePath - a configured file or directory name, relative names are
// taken from the daemon's data directory
func ResolvePath(dataDirectory string, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dataDirectory, name)
}

// ResolveOptionalPath - as ResolvePath but a blank name means the file
// is not used and stays blank
func ResolveOptionalPath(dataDirectory string, name string) string {
	if "" == name {
		return ""
	}
	return ResolvePath(dataDirectory, name)
}

// FileExists - a regular file (key, certificate, spooled call) is present
func FileExists(name string) bool {
	info, err := os.Stat(name)
	return nil == err && info.Mode().IsRegular()
}
