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

package chainspec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOrderIsStable(t *testing.T) {
	r := Default()
	got := r.All()
	require.NotEmpty(t, got)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	require.Equal(t, []string{
		"p_asset_hub", "p_collectives", "p_bridge_hub", "p_people",
		"k_asset_hub", "k_coretime", "k_bridge_hub",
	}, ids)
}

func TestBridgeHubsUnsupported(t *testing.T) {
	r := Default()
	for _, id := range []string{"p_bridge_hub", "k_bridge_hub"} {
		s, ok := r.ByID(id)
		require.True(t, ok)
		require.False(t, s.SupportsProxyRegistration)
	}
}

func TestByEcosystem(t *testing.T) {
	r := Default()
	p := r.ByEcosystem(Polkadot)
	for _, s := range p {
		require.Equal(t, Polkadot, s.Eco)
	}
	require.Len(t, p, 4)
	require.Len(t, r.ByEcosystem(Kusama), 3)
}

func TestDefaultReserves(t *testing.T) {
	r := Default()
	ph, _ := r.ByID("p_asset_hub")
	kh, _ := r.ByID("k_asset_hub")

	// 1 unit on Polkadot (10 decimals), 0.1 unit on Kusama (12 decimals).
	require.Equal(t, "10000000000", ph.BondReserve.Dec())
	require.Equal(t, "100000000000", kh.BondReserve.Dec())
}

func TestSetPreservesOrderForExistingID(t *testing.T) {
	r := Default()
	before := r.All()

	s, _ := r.ByID("p_people")
	s.RPC = "wss://example.invalid"
	r.Set(s)

	after := r.All()
	require.Equal(t, len(before), len(after))
	for i := range before {
		require.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestByIDUnknown(t *testing.T) {
	r := Default()
	_, ok := r.ByID("nope")
	require.False(t, ok)
}
