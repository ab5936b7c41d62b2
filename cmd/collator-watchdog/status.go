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
	"fmt"

	"github.com/urfave/cli/v2"
)

// statusCommand runs a single read-only pass and prints one line per
// chain. It never writes to chain state and never sends notifications
// (spec §4.6), so it needs no proxy seed.
var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "print current candidacy status for every configured chain, read-only",
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		o, err := buildOrchestrator(cfg, false)
		if err != nil {
			return err
		}

		for _, line := range o.Status(ctx.Context) {
			fmt.Println(line)
		}
		return nil
	},
}
