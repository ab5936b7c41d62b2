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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                 "collator-watchdog",
		Usage:                "keep a collator registered and competitively bonded across a family of parachains",
		Flags:                globalFlags,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			statusCommand,
			checkCommand,
			watchCommand,
			showConfigCommand,
		},
		Before: func(ctx *cli.Context) error {
			return setupLogging(ctx)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// setupLogging installs the root logger per --log-level/--log-file,
// exactly the pattern cmd/geth uses for its own --verbosity flag.
func setupLogging(ctx *cli.Context) error {
	lvl, err := log.LvlFromString(ctx.String(flagLogLevel.Name))
	if err != nil {
		return fmt.Errorf("%w: %s", errConfig, err)
	}

	if path := ctx.String(flagLogFile.Name); path != "" {
		log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(newRotatingLogFile(path), lvl, false)))
		return nil
	}

	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	return nil
}
