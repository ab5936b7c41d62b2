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
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/paraops/collator-watchdog/config"
	"github.com/paraops/collator-watchdog/monitor"
	"github.com/paraops/collator-watchdog/orchestrator"
)

// watchCommand runs scans forever on a fixed period, registering and
// topping up bond as needed and dispatching rate-limited Slack
// notifications, until it receives SIGINT/SIGTERM (spec §4.6).
var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "run continuously, scanning every interval",
	Flags: []cli.Flag{flagInterval, flagOnce},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if err := config.RequireProxySeed(cfg, "watch"); err != nil {
			return err
		}

		o, err := buildOrchestrator(cfg, true)
		if err != nil {
			return err
		}

		if ctx.Bool(flagOnce.Name) {
			printResults(o.ScanOnce(ctx.Context, false))
			return nil
		}

		interval := ctx.Duration(flagInterval.Name)
		if interval <= 0 {
			interval = time.Duration(cfg.CheckIntervalSecs) * time.Second
		}

		runCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Root().Info("starting watch loop", "interval", interval.String())
		o.Watch(runCtx, interval, func(results []orchestrator.ChainResult) {
			for _, r := range results {
				if r.Outcome.Kind == monitor.ErrorOutcome {
					log.Root().Warn("chain scan ended in error", "chain_id", r.Chain.ID, "error_kind", r.Outcome.ErrKind, "message", r.Outcome.ErrMessage)
				}
			}
		})

		return nil
	},
}

func printResults(results []orchestrator.ChainResult) {
	for _, r := range results {
		fmt.Printf("%-16s %s\n", r.Chain.ID, r.Outcome.Kind.String())
	}
}
