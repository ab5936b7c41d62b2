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
)

// showConfigCommand prints the fully resolved configuration with the
// proxy seed redacted. It never requires a proxy seed to run (spec
// §6), so an operator can sanity-check wiring before supplying one.
var showConfigCommand = &cli.Command{
	Name:  "show-config",
	Usage: "print the resolved configuration, with secrets redacted",
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		out, err := config.Dump(cfg.Redact())
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}
