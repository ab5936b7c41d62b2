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

	"github.com/paraops/collator-watchdog/config"
	"github.com/paraops/collator-watchdog/monitor"
)

// checkCommand runs a single live pass - registering or topping up
// bond where needed - and exits non-zero if any chain ended in an
// Error outcome (spec §6 exit code 1).
var checkCommand = &cli.Command{
	Name:  "check",
	Usage: "run one scan, registering or topping up bond as needed",
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if err := config.RequireProxySeed(cfg, "check"); err != nil {
			return err
		}

		o, err := buildOrchestrator(cfg, true)
		if err != nil {
			return err
		}

		results := o.ScanOnce(ctx.Context, false)
		failed := false
		for _, r := range results {
			fmt.Printf("%-16s %s\n", r.Chain.ID, r.Outcome.Kind.String())
			if r.Outcome.Kind == monitor.ErrorOutcome {
				failed = true
			}
		}

		if failed {
			return errScanFailed
		}
		return nil
	},
}
