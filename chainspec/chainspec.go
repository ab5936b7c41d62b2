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

// Package chainspec holds the static catalog of chains the watchdog knows
// how to monitor: their ecosystem, RPC endpoint and capability flags.
package chainspec

import "github.com/holiman/uint256"

// Ecosystem identifies a relay chain together with its system parachains.
type Ecosystem string

const (
	Polkadot Ecosystem = "P"
	Kusama   Ecosystem = "K"
)

// Spec describes one monitored chain. Instances are created once at
// startup from the built-in catalog (possibly overridden by config) and
// are immutable thereafter.
type Spec struct {
	ID      string    // stable slug, e.g. "p_asset_hub"
	Eco     Ecosystem // P or K
	Name    string    // human display name
	RPC     string    // websocket RPC endpoint
	Enabled bool      // per-chain enable flag, config-overridable

	// SupportsProxyRegistration is false for chains (notably bridge hubs)
	// that do not run the collator-selection pallet the core depends on.
	// Monitors observing such a chain short-circuit without connecting.
	SupportsProxyRegistration bool

	// TokenDecimals is the number of smallest-unit digits of the native
	// token, in [0,18].
	TokenDecimals uint8

	// BondReserve is subtracted from the collator's free balance before
	// any bond is computed, in smallest units. Ecosystem default unless
	// overridden per-chain by config.
	BondReserve *uint256.Int
}

// unit returns 10^decimals as a *uint256.Int.
func unit(decimals uint8) *uint256.Int {
	ten := uint256.NewInt(10)
	out := uint256.NewInt(1)
	for i := uint8(0); i < decimals; i++ {
		out.Mul(out, ten)
	}
	return out
}

// defaultReserve returns the ecosystem default bond reserve: 1 unit on
// Polkadot, 0.1 unit on Kusama (spec §4.2).
func defaultReserve(eco Ecosystem, decimals uint8) *uint256.Int {
	u := unit(decimals)
	switch eco {
	case Polkadot:
		return u
	case Kusama:
		return new(uint256.Int).Div(u, uint256.NewInt(10))
	default:
		return u
	}
}

// Registry is the ordered, stable catalog of all known chains.
type Registry struct {
	order []string
	specs map[string]Spec
}

// New returns an empty registry. Chains are added with Set; used by
// tests and by config when building a catalog from scratch rather than
// overriding Default's.
func New() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Default builds the built-in catalog. Order is stable and drives the
// reporting order in `status` (spec §4.1).
func Default() *Registry {
	r := New()

	add := func(s Spec) {
		if s.BondReserve == nil {
			s.BondReserve = defaultReserve(s.Eco, s.TokenDecimals)
		}
		r.order = append(r.order, s.ID)
		r.specs[s.ID] = s
	}

	add(Spec{ID: "p_asset_hub", Eco: Polkadot, Name: "Polkadot Asset Hub",
		RPC: "wss://polkadot-asset-hub-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: true, TokenDecimals: 10})
	add(Spec{ID: "p_collectives", Eco: Polkadot, Name: "Polkadot Collectives",
		RPC: "wss://polkadot-collectives-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: true, TokenDecimals: 10})
	add(Spec{ID: "p_bridge_hub", Eco: Polkadot, Name: "Polkadot Bridge Hub",
		RPC: "wss://polkadot-bridge-hub-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: false, TokenDecimals: 10})
	add(Spec{ID: "p_people", Eco: Polkadot, Name: "Polkadot People",
		RPC: "wss://polkadot-people-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: true, TokenDecimals: 10})

	add(Spec{ID: "k_asset_hub", Eco: Kusama, Name: "Kusama Asset Hub",
		RPC: "wss://kusama-asset-hub-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: true, TokenDecimals: 12})
	add(Spec{ID: "k_coretime", Eco: Kusama, Name: "Kusama Coretime",
		RPC: "wss://kusama-coretime-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: true, TokenDecimals: 12})
	add(Spec{ID: "k_bridge_hub", Eco: Kusama, Name: "Kusama Bridge Hub",
		RPC: "wss://kusama-bridge-hub-rpc.polkadot.io", Enabled: true,
		SupportsProxyRegistration: false, TokenDecimals: 12})

	return r
}

// All returns the full catalog in stable registry order.
func (r *Registry) All() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// ByEcosystem returns the ordered sub-sequence of chains belonging to eco.
func (r *Registry) ByEcosystem(eco Ecosystem) []Spec {
	var out []Spec
	for _, id := range r.order {
		if s := r.specs[id]; s.Eco == eco {
			out = append(out, s)
		}
	}
	return out
}

// ByID returns the chain with the given id, if known.
func (r *Registry) ByID(id string) (Spec, bool) {
	s, ok := r.specs[id]
	return s, ok
}

// Set replaces (or inserts) a chain spec, preserving registration order
// for existing ids. Used by config to apply per-chain overrides.
func (r *Registry) Set(s Spec) {
	if _, exists := r.specs[s.ID]; !exists {
		r.order = append(r.order, s.ID)
	}
	r.specs[s.ID] = s
}
