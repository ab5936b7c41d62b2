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

// Package orchestrator drives the Monitor fleet across every configured
// chain: one scan pass touches each chain once, in registry order, each
// isolated from the others' failures, and the Watch loop repeats that
// pass on a fixed period (spec §4.6).
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/paraops/collator-watchdog/chainclient"
	"github.com/paraops/collator-watchdog/chainspec"
	"github.com/paraops/collator-watchdog/monitor"
	"github.com/paraops/collator-watchdog/notify"
)

// ChainResult pairs one chain's scan outcome with its spec, in the order
// the scan ran.
type ChainResult struct {
	Chain   chainspec.Spec
	Outcome monitor.Outcome
}

// Orchestrator owns the registry, the per-ecosystem collator addresses
// and proxy signers, the rate limit dispatcher and the per-chain RPC
// dialer, and builds a fresh Monitor for each chain on every pass (spec
// §3 Ownership: monitors are cheap and disposable, the
// Dialer/Dispatcher/Signers are not). Collators and Signers are keyed
// by ecosystem because a single operator's Polkadot and Kusama collator
// accounts - and their SS58-encoded proxy address - differ even when
// both are derived from the same proxy seed.
type Orchestrator struct {
	Registry  *chainspec.Registry
	Collators map[chainspec.Ecosystem]chainclient.Address
	Signers   map[chainspec.Ecosystem]chainclient.Signer
	Dialer    chainclient.Dialer
	Notifier  *notify.Dispatcher
	Log       log.Logger
}

func (o *Orchestrator) logger() log.Logger {
	if o.Log != nil {
		return o.Log
	}
	return log.Root()
}

// ScanOnce runs one pass over every enabled chain in registry order,
// returning one ChainResult per chain. A panic inside a single chain's
// scan is contained by Monitor.Scan itself; ScanOnce additionally never
// lets one chain's result affect another's (spec §4.6: "a failure on
// one chain must never block or skip any other chain").
func (o *Orchestrator) ScanOnce(ctx context.Context, readOnly bool) []ChainResult {
	chains := o.Registry.All()
	results := make([]ChainResult, 0, len(chains))

	for _, spec := range chains {
		if !spec.Enabled {
			continue
		}

		collator, ok := o.Collators[spec.Eco]
		if !ok {
			results = append(results, ChainResult{Chain: spec, Outcome: monitor.Outcome{Kind: monitor.ErrorOutcome, ErrKind: "Internal", ErrMessage: fmt.Sprintf("no collator address configured for ecosystem %s", spec.Eco)}})
			continue
		}

		m := &monitor.Monitor{
			Spec:     spec,
			Collator: monitor.Identity{Address: collator, Eco: spec.Eco},
			Signer:   o.Signers[spec.Eco],
			Dialer:   o.Dialer,
			Notifier: o.Notifier,
			Log:      o.logger(),
		}

		out := m.Scan(ctx, readOnly)
		results = append(results, ChainResult{Chain: spec, Outcome: out})

		o.logger().Debug("chain scan complete", "chain_id", spec.ID, "outcome", out.Kind.String())

		select {
		case <-ctx.Done():
			return results
		default:
		}
	}

	return results
}

// Watch runs ScanOnce repeatedly, waiting interval between the end of
// one pass and the start of the next (spec §4.6: the period is measured
// from scan completion, not a fixed clock tick, so a slow pass never
// causes overlapping scans). It blocks until ctx is cancelled, then
// returns once the in-flight pass reaches a clean boundary.
func (o *Orchestrator) Watch(ctx context.Context, interval time.Duration, onPass func([]ChainResult)) {
	for {
		results := o.ScanOnce(ctx, false)
		if onPass != nil {
			onPass(results)
		}

		if ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Status runs one read-only pass (spec §4.6 status(): no writes, no
// Slack notifications) and renders each result as a single display line.
func (o *Orchestrator) Status(ctx context.Context) []string {
	results := o.ScanOnce(ctx, true)
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, formatStatusLine(r))
	}
	return lines
}

func formatStatusLine(r ChainResult) string {
	switch r.Outcome.Kind {
	case monitor.AlreadyInvulnerable:
		return fmt.Sprintf("%-16s invulnerable", r.Chain.ID)
	case monitor.AlreadyCandidate:
		return fmt.Sprintf("%-16s candidate (bond=%s)", r.Chain.ID, r.Outcome.CurrentBond.String())
	case monitor.NotRegistered:
		return fmt.Sprintf("%-16s not-registered (target=%s)", r.Chain.ID, r.Outcome.TargetBond.String())
	case monitor.SkippedUnsupported:
		return fmt.Sprintf("%-16s unsupported", r.Chain.ID)
	case monitor.InsufficientFunds:
		return fmt.Sprintf("%-16s insufficient-funds (have=%s need=%s)", r.Chain.ID, r.Outcome.Have.String(), r.Outcome.Need.String())
	case monitor.ErrorOutcome:
		return fmt.Sprintf("%-16s error (%s: %s)", r.Chain.ID, r.Outcome.ErrKind, r.Outcome.ErrMessage)
	default:
		return fmt.Sprintf("%-16s %s", r.Chain.ID, r.Outcome.Kind.String())
	}
}
