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

	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	"github.com/paraops/collator-watchdog/chainclient"
	"github.com/paraops/collator-watchdog/chainclient/substrate"
	"github.com/paraops/collator-watchdog/chainspec"
	"github.com/paraops/collator-watchdog/config"
	"github.com/paraops/collator-watchdog/notify"
	"github.com/paraops/collator-watchdog/orchestrator"
	"github.com/paraops/collator-watchdog/proxyid"
)

// ss58Network is the address format byte gsrpc needs to render a
// KeyringPair's SS58 address for each ecosystem (spec §9).
var ss58Network = map[chainspec.Ecosystem]uint8{
	chainspec.Polkadot: 0,
	chainspec.Kusama:   2,
}

// loadConfig runs the full resolution order: defaults, TOML, env,
// nothing from CLI flags here (those are applied by each command
// directly via urfave/cli's own precedence over EnvVars-bound flags).
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if err := config.LoadTOML(ctx.String(flagConfigPath.Name), &cfg); err != nil {
		return config.Config{}, err
	}
	config.ApplyEnv(&cfg)
	return cfg, nil
}

// buildOrchestrator resolves proxy identities (if requireSigner) and
// assembles an orchestrator.Orchestrator ready to scan.
func buildOrchestrator(cfg config.Config, requireSigner bool) (*orchestrator.Orchestrator, error) {
	registry, err := config.BuildRegistry(cfg, chainspec.Default(), log.Root())
	if err != nil {
		return nil, err
	}

	collators := map[chainspec.Ecosystem]chainclient.Address{}
	if addr, ok := config.CollatorAddress(cfg, chainspec.Polkadot); ok {
		collators[chainspec.Polkadot] = addr
	}
	if addr, ok := config.CollatorAddress(cfg, chainspec.Kusama); ok {
		collators[chainspec.Kusama] = addr
	}

	signers := map[chainspec.Ecosystem]chainclient.Signer{}
	if requireSigner {
		for eco := range collators {
			id, err := proxyid.Resolve(cfg.ProxySeed, ss58Network[eco])
			if err != nil {
				return nil, fmt.Errorf("%w: %s", errStartup, err)
			}
			signers[eco] = id
		}
	}

	var sender notify.Sender
	if cfg.SlackWebhookURL != "" {
		sender = notify.NewHTTPSender(cfg.SlackWebhookURL)
	}

	return &orchestrator.Orchestrator{
		Registry:  registry,
		Collators: collators,
		Signers:   signers,
		Dialer:    &substrate.Dialer{Logger: hclog.Default().Named("chainclient")},
		Notifier:  notify.New(sender, log.Root()),
		Log:       log.Root(),
	}, nil
}
