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

package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paraops/collator-watchdog/chainclient"
	"github.com/paraops/collator-watchdog/chainclient/fake"
	"github.com/paraops/collator-watchdog/chainspec"
	"github.com/paraops/collator-watchdog/notify"
)

const collatorAddr = chainclient.Address("5Collator")

type testSigner struct{}

func (testSigner) PublicAddress() chainclient.Address { return "5Proxy" }

// multiDialer hands out a distinct fake.Client per RPC URL, so each
// chain in a multi-chain registry can be scripted independently.
type multiDialer struct {
	byURL map[string]*fake.Client
}

func (d *multiDialer) Dial(ctx context.Context, rpcURL string) (chainclient.Client, error) {
	c, ok := d.byURL[rpcURL]
	if !ok {
		return nil, chainclient.ErrConnect
	}
	return c, nil
}

func newRegistry() (*chainspec.Registry, *multiDialer) {
	r := chainspec.New()
	dialer := &multiDialer{byURL: map[string]*fake.Client{}}

	add := func(id string, eco chainspec.Ecosystem, rpc string, supports bool, decimals uint8, client *fake.Client) {
		r.Set(chainspec.Spec{
			ID: id, Eco: eco, Name: id, RPC: rpc, Enabled: true,
			SupportsProxyRegistration: supports, TokenDecimals: decimals,
			BondReserve: uint256.NewInt(0),
		})
		if client != nil {
			dialer.byURL[rpc] = client
		}
	}

	invuln := fake.New()
	invuln.Invulnerables[collatorAddr] = struct{}{}
	add("p_asset_hub", chainspec.Polkadot, "rpc://asset-hub", true, 10, invuln)

	broken := fake.New()
	broken.ReadErr = fakeErr{"connection refused"}
	add("p_collectives", chainspec.Polkadot, "rpc://collectives", true, 10, broken)

	add("p_bridge_hub", chainspec.Polkadot, "rpc://bridge-hub", false, 10, nil)

	return r, dialer
}

type fakeErr struct{ msg string }

func (e fakeErr) Error() string { return e.msg }

func TestScanOnceIsolatesChainFailures(t *testing.T) {
	r, dialer := newRegistry()
	o := &Orchestrator{
		Registry:  r,
		Collators: map[chainspec.Ecosystem]chainclient.Address{chainspec.Polkadot: collatorAddr},
		Signers:   map[chainspec.Ecosystem]chainclient.Signer{chainspec.Polkadot: testSigner{}},
		Dialer:    dialer,
		Notifier:  notify.New(nil, nil),
	}

	results := o.ScanOnce(context.Background(), false)
	require.Len(t, results, 3)

	byID := map[string]ChainResult{}
	for _, res := range results {
		byID[res.Chain.ID] = res
	}

	require.Contains(t, byID, "p_asset_hub")
	require.Equal(t, "invulnerable", byID["p_asset_hub"].Outcome.Kind.String())

	require.Contains(t, byID, "p_collectives")
	require.Equal(t, "error", byID["p_collectives"].Outcome.Kind.String())

	require.Contains(t, byID, "p_bridge_hub")
	require.Equal(t, "unsupported", byID["p_bridge_hub"].Outcome.Kind.String())
}

func TestScanOnceSkipsDisabledChains(t *testing.T) {
	r, dialer := newRegistry()
	spec, ok := r.ByID("p_bridge_hub")
	require.True(t, ok)
	spec.Enabled = false
	r.Set(spec)

	o := &Orchestrator{Registry: r, Collators: map[chainspec.Ecosystem]chainclient.Address{chainspec.Polkadot: collatorAddr}, Signers: map[chainspec.Ecosystem]chainclient.Signer{chainspec.Polkadot: testSigner{}}, Dialer: dialer, Notifier: notify.New(nil, nil)}
	results := o.ScanOnce(context.Background(), false)

	require.Len(t, results, 2)
	for _, res := range results {
		require.NotEqual(t, "p_bridge_hub", res.Chain.ID)
	}
}

func TestStatusRendersOneLinePerChain(t *testing.T) {
	r, dialer := newRegistry()
	o := &Orchestrator{Registry: r, Collators: map[chainspec.Ecosystem]chainclient.Address{chainspec.Polkadot: collatorAddr}, Signers: map[chainspec.Ecosystem]chainclient.Signer{chainspec.Polkadot: testSigner{}}, Dialer: dialer, Notifier: notify.New(nil, nil)}

	lines := o.Status(context.Background())
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "invulnerable")
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	r, dialer := newRegistry()
	o := &Orchestrator{Registry: r, Collators: map[chainspec.Ecosystem]chainclient.Address{chainspec.Polkadot: collatorAddr}, Signers: map[chainspec.Ecosystem]chainclient.Signer{chainspec.Polkadot: testSigner{}}, Dialer: dialer, Notifier: notify.New(nil, nil)}

	ctx, cancel := context.WithCancel(context.Background())
	passes := 0
	done := make(chan struct{})

	go func() {
		o.Watch(ctx, time.Hour, func(results []ChainResult) {
			passes++
			if passes == 1 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after context cancellation")
	}

	require.Equal(t, 1, passes)
}
