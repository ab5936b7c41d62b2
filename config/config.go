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

// Package config resolves the watchdog's configuration: built-in
// defaults, overlaid by an optional TOML file, overlaid by COLLATOR_
// environment variables, overlaid last by CLI flags (spec §6). Mirrors
// cmd/geth/config.go's gethConfig/loadConfig/dumpConfig trio, down to
// the tomlSettings NormFieldName/FieldToKey/MissingField idiom.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/naoina/toml"

	"github.com/paraops/collator-watchdog/chainclient"
	"github.com/paraops/collator-watchdog/chainspec"
)

// ErrConfig is the sentinel for any unresolvable configuration problem
// (spec §7 ConfigError: fatal at startup).
var ErrConfig = errors.New("config: invalid configuration")

// Redacted is substituted for ProxySeed when a Config is dumped (spec §6
// show-config: "must never print secrets").
const Redacted = "***REDACTED***"

// ChainOverride holds the per-chain config.toml overrides under
// `[chains.<id>]`.
type ChainOverride struct {
	Enabled     *bool  `toml:"enabled"`
	RPCURL      string `toml:"rpc_url"`
	BondReserve string `toml:"bond_reserve"` // decimal string, smallest units
}

// Config is the fully resolved set of recognized options (spec §6 table).
type Config struct {
	PolkadotCollatorAddress string `toml:"polkadot_collator_address"`
	KusamaCollatorAddress   string `toml:"kusama_collator_address"`
	ProxySeed               string `toml:"proxy_seed"`
	SlackWebhookURL         string `toml:"slack_webhook_url"`
	CheckIntervalSecs       uint64 `toml:"check_interval_secs"`

	Chains map[string]ChainOverride `toml:"chains"`
}

// Defaults returns the built-in starting point before any overlay is
// applied.
func Defaults() Config {
	return Config{CheckIntervalSecs: 3600}
}

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("%w: field %q is not defined in %s", ErrConfig, field, rt.String())
	},
}

// LoadTOML overlays the TOML document at path onto cfg, leaving fields
// the document does not mention untouched. An absent file is not an
// error - the TOML layer is optional (spec §6 resolution order).
func LoadTOML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConfig, err)
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrConfig, path, err)
	}
	return nil
}

// ApplyEnv overlays recognized COLLATOR_* environment variables onto
// cfg. Only present variables are applied; absent ones leave cfg
// unchanged.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("COLLATOR_POLKADOT_COLLATOR_ADDRESS"); ok {
		cfg.PolkadotCollatorAddress = v
	}
	if v, ok := os.LookupEnv("COLLATOR_KUSAMA_COLLATOR_ADDRESS"); ok {
		cfg.KusamaCollatorAddress = v
	}
	if v, ok := os.LookupEnv("COLLATOR_PROXY_SEED"); ok {
		cfg.ProxySeed = v
	}
	if v, ok := os.LookupEnv("COLLATOR_SLACK_WEBHOOK_URL"); ok {
		cfg.SlackWebhookURL = v
	}
	if v, ok := os.LookupEnv("COLLATOR_CHECK_INTERVAL_SECS"); ok {
		var secs uint64
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
			cfg.CheckIntervalSecs = secs
		}
	}
}

// Redact returns a copy of cfg with ProxySeed replaced, safe to encode
// for `show-config` (spec §6, §8 "output contains no substring of the
// configured proxy_seed").
func (c Config) Redact() Config {
	out := c
	if out.ProxySeed != "" {
		out.ProxySeed = Redacted
	}
	return out
}

// Dump renders cfg (already redacted by the caller if needed) as TOML.
func Dump(cfg Config) (string, error) {
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrConfig, err)
	}
	return string(out), nil
}

// RequireProxySeed enforces "missing proxy seed is fatal for
// check/watch, allowed for status/show-config" (spec §6).
func RequireProxySeed(cfg Config, command string) error {
	if cfg.ProxySeed != "" {
		return nil
	}
	switch command {
	case "check", "watch":
		return fmt.Errorf("%w: proxy_seed is required for %q", ErrConfig, command)
	default:
		return nil
	}
}

// BuildRegistry derives a chain registry from base by applying cfg's
// per-chain overrides, then disabling every chain in an ecosystem whose
// collator address is unset (spec §6: "missing collator addresses for
// an ecosystem disable all chains in that ecosystem, with a warning").
func BuildRegistry(cfg Config, base *chainspec.Registry, logger log.Logger) (*chainspec.Registry, error) {
	if logger == nil {
		logger = log.Root()
	}

	out := chainspec.New()
	for _, spec := range base.All() {
		if override, ok := cfg.Chains[spec.ID]; ok {
			if override.Enabled != nil {
				spec.Enabled = *override.Enabled
			}
			if override.RPCURL != "" {
				spec.RPC = override.RPCURL
			}
			if override.BondReserve != "" {
				reserve, err := parseSmallestUnits(override.BondReserve)
				if err != nil {
					return nil, fmt.Errorf("%w: chains.%s.bond_reserve: %s", ErrConfig, spec.ID, err)
				}
				spec.BondReserve = reserve
			}
		}
		out.Set(spec)
	}

	if cfg.PolkadotCollatorAddress == "" {
		disableEcosystem(out, chainspec.Polkadot, logger)
	}
	if cfg.KusamaCollatorAddress == "" {
		disableEcosystem(out, chainspec.Kusama, logger)
	}

	return out, nil
}

func disableEcosystem(r *chainspec.Registry, eco chainspec.Ecosystem, logger log.Logger) {
	for _, spec := range r.ByEcosystem(eco) {
		if !spec.Enabled {
			continue
		}
		logger.Warn("disabling ecosystem: no collator address configured", "ecosystem", string(eco), "chain_id", spec.ID)
		spec.Enabled = false
		r.Set(spec)
	}
}

func parseSmallestUnits(s string) (*uint256.Int, error) {
	out := new(uint256.Int)
	if err := out.SetFromDecimal(s); err != nil {
		return nil, err
	}
	return out, nil
}

// CollatorAddress returns the configured collator address for eco, if any.
func CollatorAddress(cfg Config, eco chainspec.Ecosystem) (chainclient.Address, bool) {
	switch eco {
	case chainspec.Polkadot:
		if cfg.PolkadotCollatorAddress == "" {
			return "", false
		}
		return chainclient.Address(cfg.PolkadotCollatorAddress), true
	case chainspec.Kusama:
		if cfg.KusamaCollatorAddress == "" {
			return "", false
		}
		return chainclient.Address(cfg.KusamaCollatorAddress), true
	default:
		return "", false
	}
}
