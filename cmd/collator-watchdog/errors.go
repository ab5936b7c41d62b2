// Copyright 2026 The collator-watchdog Authors
// This file is part of the collator-watchdog library.
//
// The collator-watchdog library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The collator-watchdog library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the collator-watchdog library. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"

	"github.com/paraops/collator-watchdog/config"
)

// errConfig marks an unresolvable configuration problem (spec §6 exit
// code 2).
var errConfig = errors.New("collator-watchdog: configuration error")

// errStartup marks an unrecoverable startup failure such as an invalid
// proxy seed (spec §6 exit code 3).
var errStartup = errors.New("collator-watchdog: startup failure")

// errScanFailed marks that `check` observed at least one Error outcome
// (spec §6 exit code 1).
var errScanFailed = errors.New("collator-watchdog: scan reported errors")

// exitCodeFor maps a returned error to the process exit code spec'd in
// §6. Commands that succeed return nil and fall through to exit 0.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, errScanFailed):
		return 1
	case errors.Is(err, errConfig), errors.Is(err, config.ErrConfig):
		return 2
	case errors.Is(err, errStartup):
		return 3
	default:
		return 1
	}
}
