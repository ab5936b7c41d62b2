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

package monitor

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

// newTestDispatcherForMonitor builds a Dispatcher with a controllable
// clock, so rate-limit cooldown scenarios can be driven deterministically.
func newTestDispatcherForMonitor() (*notify.Dispatcher, *time.Time) {
	d := notify.New(nil, nil)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return clock })
	return d, &clock
}

const collatorAddr = chainclient.Address("5Collator")

func unitScaled(n uint64, decimals uint8) *uint256.Int {
	out := uint256.NewInt(n)
	ten := uint256.NewInt(10)
	for i := uint8(0); i < decimals; i++ {
		out = new(uint256.Int).Mul(out, ten)
	}
	return out
}

type testSigner struct{}

func (testSigner) PublicAddress() chainclient.Address { return "5Proxy" }

func newSpec(id string, decimals uint8, reserveUnits uint64) chainspec.Spec {
	return chainspec.Spec{
		ID:                        id,
		Eco:                       chainspec.Polkadot,
		Name:                      id,
		SupportsProxyRegistration: true,
		TokenDecimals:             decimals,
		BondReserve:               unitScaled(reserveUnits, decimals),
	}
}

func newMonitor(spec chainspec.Spec, client *fake.Client, notifier *notify.Dispatcher) *Monitor {
	return &Monitor{
		Spec:     spec,
		Collator: Identity{Address: collatorAddr, Eco: spec.Eco},
		Signer:   testSigner{},
		Dialer:   &fake.Dialer{Client: client},
		Notifier: notifier,
	}
}

func TestSteadyInvulnerable(t *testing.T) {
	client := fake.New()
	client.Invulnerables[collatorAddr] = struct{}{}

	m := newMonitor(newSpec("p_asset_hub", 10, 1), client, notify.New(nil, nil))
	out := m.Scan(context.Background(), false)

	require.Equal(t, AlreadyInvulnerable, out.Kind)
	require.Empty(t, client.Calls)
}

func TestColdRegistrationSufficientFunds(t *testing.T) {
	client := fake.New()
	client.MinCandidacyBond = unitScaled(10, 10)
	// free = 100 unit, reserve = 1 unit; the fake client has no fee model,
	// so the post-register re-read balance stays ~100 unit (spec §8
	// scenario 2: "post-fee balance assumed still >= 99 unit").
	client.SetBalance(collatorAddr, 100_0000000000, 0)

	m := newMonitor(newSpec("p_collectives", 10, 1), client, notify.New(nil, nil))
	out := m.Scan(context.Background(), false)

	require.Equal(t, Registered, out.Kind)
	require.Equal(t, unitScaled(99, 10), out.Bond)
	require.Len(t, client.Calls, 2)
	require.Equal(t, "register", client.Calls[0].Kind)
	require.Equal(t, "update_bond", client.Calls[1].Kind)
	require.Equal(t, unitScaled(99, 10), client.Calls[1].Amount)
}

func TestBondTopUp(t *testing.T) {
	client := fake.New()
	client.Candidates = []chainclient.CandidateInfo{{Who: collatorAddr, Deposit: unitScaled(50, 12)}}
	client.SetBalance(collatorAddr, 80_000000000000, 0)

	spec := newSpec("k_coretime", 12, 0) // reserve set below to 0.1 unit explicitly
	spec.BondReserve = new(uint256.Int).Div(unitScaled(1, 12), uint256.NewInt(10))

	m := newMonitor(spec, client, notify.New(nil, nil))
	out := m.Scan(context.Background(), false)

	require.Equal(t, AlreadyCandidate, out.Kind)
	require.Equal(t, unitScaled(50, 12), out.CurrentBond)
	require.NotNil(t, out.IncreasedTo)
	require.Len(t, client.Calls, 1)
	require.Equal(t, "update_bond", client.Calls[0].Kind)
}

type spySender struct{ sent []string }

func (s *spySender) Send(ctx context.Context, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

func TestInsufficientFundsRateLimited(t *testing.T) {
	client := fake.New()
	client.MinCandidacyBond = unitScaled(10, 10)
	client.SetBalance(collatorAddr, 2_0000000000, 0)

	spec := newSpec("p_people", 10, 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sender := &spySender{}
	d := notify.New(sender, nil)
	d.SetClock(func() time.Time { return clock })
	m := newMonitor(spec, client, d)

	out1 := m.Scan(context.Background(), false)
	require.Equal(t, InsufficientFunds, out1.Kind)
	require.Len(t, sender.sent, 1)

	clock = clock.Add(10 * time.Minute)
	out2 := m.Scan(context.Background(), false)
	require.Equal(t, InsufficientFunds, out2.Kind)
	require.Len(t, sender.sent, 1) // suppressed, no new message

	clock = clock.Add(5 * time.Hour)
	out3 := m.Scan(context.Background(), false)
	require.Equal(t, InsufficientFunds, out3.Kind)
	require.Len(t, sender.sent, 2)
	require.Contains(t, sender.sent[1], "(1 suppressed)")
}

func TestUnsupportedChainNeverDials(t *testing.T) {
	client := fake.New()
	spec := newSpec("p_bridge_hub", 10, 1)
	spec.SupportsProxyRegistration = false

	dialer := &fake.Dialer{Client: client}
	m := &Monitor{Spec: spec, Collator: Identity{Address: collatorAddr}, Signer: testSigner{}, Dialer: dialer, Notifier: notify.New(nil, nil)}

	out := m.Scan(context.Background(), false)
	require.Equal(t, SkippedUnsupported, out.Kind)
	require.False(t, client.Closed)
	require.Empty(t, client.Calls)
}

func TestTransientRpcFailureThenRecovery(t *testing.T) {
	client := fake.New()
	client.ReadErr = assertError{"connection refused"}
	spec := newSpec("k_asset_hub", 12, 0)
	d, clock := newTestDispatcherForMonitor()
	m := newMonitor(spec, client, d)

	out1 := m.Scan(context.Background(), false)
	require.Equal(t, ErrorOutcome, out1.Kind)

	client.ReadErr = nil
	client.Candidates = []chainclient.CandidateInfo{{Who: collatorAddr, Deposit: unitScaled(50, 12)}}
	client.SetBalance(collatorAddr, 50_000000000000, 0) // free == current deposit, no top-up needed

	out2 := m.Scan(context.Background(), false)
	require.Equal(t, AlreadyCandidate, out2.Kind)
	require.Nil(t, out2.IncreasedTo)

	*clock = clock.Add(1 * time.Hour)
	client.ReadErr = assertError{"connection refused"}
	out3 := m.Scan(context.Background(), false)
	require.Equal(t, ErrorOutcome, out3.Kind)
}

func TestStatusModeNeverWrites(t *testing.T) {
	client := fake.New()
	client.MinCandidacyBond = unitScaled(10, 10)
	client.SetBalance(collatorAddr, 100_0000000000, 0)

	m := newMonitor(newSpec("p_collectives", 10, 1), client, notify.New(nil, nil))
	out := m.Scan(context.Background(), true)

	require.Equal(t, NotRegistered, out.Kind)
	require.Empty(t, client.Calls)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
