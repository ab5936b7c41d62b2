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

// Package monitor implements the per-chain state machine (spec §4.4):
// classify a collator's status on one chain and take the single action
// the classification calls for.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/paraops/collator-watchdog/bond"
	"github.com/paraops/collator-watchdog/chainclient"
	"github.com/paraops/collator-watchdog/chainspec"
	"github.com/paraops/collator-watchdog/notify"
)

// OutcomeKind is the tag of a MonitorOutcome (spec §3).
type OutcomeKind int

const (
	AlreadyInvulnerable OutcomeKind = iota
	AlreadyCandidate
	Registered
	NotRegistered // status-only: not invulnerable, not a candidate, no write attempted
	SkippedUnsupported
	InsufficientFunds
	CannotCompete
	ManualActionRequired
	ErrorOutcome
)

func (k OutcomeKind) String() string {
	switch k {
	case AlreadyInvulnerable:
		return "invulnerable"
	case AlreadyCandidate:
		return "candidate"
	case Registered:
		return "registered"
	case NotRegistered:
		return "not-registered"
	case SkippedUnsupported:
		return "unsupported"
	case InsufficientFunds:
		return "insufficient-funds"
	case CannotCompete:
		return "cannot-compete"
	case ManualActionRequired:
		return "manual-action-required"
	case ErrorOutcome:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one chain scan. Only the fields
// relevant to Kind are populated.
type Outcome struct {
	Kind OutcomeKind

	CurrentBond *uint256.Int // AlreadyCandidate
	IncreasedTo *uint256.Int // AlreadyCandidate, nil if no top-up happened

	Bond *uint256.Int // Registered: the final bond achieved

	TargetBond *uint256.Int // NotRegistered / display: computed target bond

	Have *uint256.Int // InsufficientFunds
	Need *uint256.Int // InsufficientFunds

	OurBond          *uint256.Int // CannotCompete
	LowestIncumbent  *uint256.Int // CannotCompete

	Reason string // ManualActionRequired: "module.name"

	ErrKind    string // ErrorOutcome
	ErrMessage string
}

// Identity is the collator account this monitor watches (spec §3
// CollatorIdentity).
type Identity struct {
	Address chainclient.Address
	Eco     chainspec.Ecosystem
}

// Signer is the shared proxy identity, satisfying chainclient.Signer.
type Signer = chainclient.Signer

// Monitor runs the state machine for one chain. A fresh Monitor is
// cheap; all mutable state lives in the Dialer/Dispatcher it borrows.
type Monitor struct {
	Spec     chainspec.Spec
	Collator Identity
	Signer   Signer
	Dialer   chainclient.Dialer
	Notifier *notify.Dispatcher
	Log      log.Logger
}

func lowestIncumbent(candidates []chainclient.CandidateInfo) (chainclient.CandidateInfo, bool) {
	if len(candidates) == 0 {
		return chainclient.CandidateInfo{}, false
	}
	lowest := candidates[0]
	for _, c := range candidates[1:] {
		if c.Deposit.Lt(lowest.Deposit) {
			lowest = c
		}
	}
	return lowest, true
}

func findCandidate(candidates []chainclient.CandidateInfo, addr chainclient.Address) (chainclient.CandidateInfo, bool) {
	for _, c := range candidates {
		if c.Who == addr {
			return c, true
		}
	}
	return chainclient.CandidateInfo{}, false
}

// Scan executes one pass of the state machine. When readOnly is true, no
// writes or notifications happen - status() classification stops short
// of anything the write path would need a real attempt to determine
// (spec §4.6 status(), §8 "status never mutates ... RateLimitTable").
func (m *Monitor) Scan(ctx context.Context, readOnly bool) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: ErrorOutcome, ErrKind: "Internal", ErrMessage: fmt.Sprintf("%v", r)}
		}
	}()

	if !m.Spec.SupportsProxyRegistration {
		return Outcome{Kind: SkippedUnsupported}
	}

	conn, err := m.Dialer.Dial(ctx, m.Spec.RPC)
	if err != nil {
		return m.finishError(ctx, readOnly, "ConnectError", err)
	}
	defer conn.Close()

	obs, err := chainclient.Observe(ctx, conn, m.Collator.Address)
	if err != nil {
		return m.finishError(ctx, readOnly, "RpcReadError", err)
	}

	if _, invuln := obs.Invulnerables[m.Collator.Address]; invuln {
		return Outcome{Kind: AlreadyInvulnerable}
	}

	if current, ok := findCandidate(obs.Candidates, m.Collator.Address); ok {
		return m.scanCandidate(ctx, conn, readOnly, current)
	}

	return m.scanUnregistered(ctx, conn, readOnly, obs)
}

func (m *Monitor) scanCandidate(ctx context.Context, conn chainclient.Client, readOnly bool, current chainclient.CandidateInfo) Outcome {
	acc, err := conn.ReadAccount(ctx, m.Collator.Address)
	if err != nil {
		return m.finishError(ctx, readOnly, "RpcReadError", err)
	}

	target := bond.Cap(acc.Free, m.Spec.BondReserve)
	eps := bond.Epsilon(m.Spec.BondReserve)

	if readOnly {
		return Outcome{Kind: AlreadyCandidate, CurrentBond: current.Deposit, TargetBond: target}
	}

	if !bond.GreaterThanWithEpsilon(target, current.Deposit, eps) {
		return Outcome{Kind: AlreadyCandidate, CurrentBond: current.Deposit}
	}

	result, err := conn.SubmitProxyCall(ctx, m.Signer, m.Collator.Address, chainclient.NonTransfer, conn.BuildUpdateBond(target), chainclient.DefaultMortality)
	if err != nil {
		return m.finishError(ctx, readOnly, "SubmissionError", err)
	}
	if result.Status == chainclient.Failed {
		return m.finishFailure(ctx, readOnly, result)
	}

	out := Outcome{Kind: AlreadyCandidate, CurrentBond: current.Deposit, IncreasedTo: target}
	m.maybeNotify(ctx, readOnly, notify.BondUpdated, fmt.Sprintf("%s: bond increased from %s to %s", m.Spec.ID, bond.FormatHuman(current.Deposit, m.Spec.TokenDecimals), bond.FormatHuman(target, m.Spec.TokenDecimals)))
	logger := m.logger()
	logger.Info("bond updated", "chain_id", m.Spec.ID, "from", current.Deposit.String(), "to", target.String())
	return out
}

func (m *Monitor) scanUnregistered(ctx context.Context, conn chainclient.Client, readOnly bool, obs chainclient.Observation) Outcome {
	want := bond.Cap(obs.CollatorAccount.Free, m.Spec.BondReserve)

	if want.Lt(obs.MinCandidacyBond) {
		need := new(uint256.Int).Add(obs.MinCandidacyBond, m.Spec.BondReserve)
		out := Outcome{Kind: InsufficientFunds, Have: obs.CollatorAccount.Free, Need: need, TargetBond: want}
		m.maybeNotify(ctx, readOnly, notify.InsufficientFunds, fmt.Sprintf("%s: insufficient funds, have %s need %s", m.Spec.ID, bond.FormatHuman(obs.CollatorAccount.Free, m.Spec.TokenDecimals), bond.FormatHuman(need, m.Spec.TokenDecimals)))
		return out
	}

	if readOnly {
		return Outcome{Kind: NotRegistered, TargetBond: want}
	}

	result, err := conn.SubmitProxyCall(ctx, m.Signer, m.Collator.Address, chainclient.NonTransfer, conn.BuildRegisterAsCandidate(), chainclient.DefaultMortality)
	if err != nil {
		return m.finishError(ctx, readOnly, "SubmissionError", err)
	}

	if result.Status == chainclient.Failed {
		if result.Reason.IsAlreadyCandidate() {
			// Coerced to the AlreadyCandidate path by re-reading candidates once.
			candidates, rerr := conn.ReadCandidates(ctx)
			if rerr != nil {
				return m.finishError(ctx, readOnly, "RpcReadError", rerr)
			}
			if current, ok := findCandidate(candidates, m.Collator.Address); ok {
				return m.scanCandidate(ctx, conn, readOnly, current)
			}
			return m.finishError(ctx, readOnly, "Internal", errors.New("already-candidate dispatch error but re-read found no candidate entry"))
		}
		if result.Reason.IsTooManyCandidates() {
			lowest, _ := lowestIncumbent(obs.Candidates)
			out := Outcome{Kind: CannotCompete, OurBond: want, LowestIncumbent: lowest.Deposit}
			m.maybeNotify(ctx, readOnly, notify.CannotCompete, fmt.Sprintf("%s: cannot compete, our bond %s <= lowest incumbent %s", m.Spec.ID, bond.FormatHuman(want, m.Spec.TokenDecimals), bond.FormatHuman(lowest.Deposit, m.Spec.TokenDecimals)))
			return out
		}
		return m.finishFailure(ctx, readOnly, result)
	}

	// Registration succeeded. Re-check for a governance race before the
	// follow-up bond update (spec §4.4 tie-break).
	invuln, err := conn.ReadInvulnerables(ctx)
	if err != nil {
		return m.finishError(ctx, readOnly, "RpcReadError", err)
	}
	if _, ok := invuln[m.Collator.Address]; ok {
		return Outcome{Kind: AlreadyInvulnerable}
	}

	acc, err := conn.ReadAccount(ctx, m.Collator.Address)
	if err != nil {
		return m.finishError(ctx, readOnly, "RpcReadError", err)
	}
	finalBond := bond.Cap(acc.Free, m.Spec.BondReserve)

	if finalBond.Cmp(obs.MinCandidacyBond) != 0 {
		updResult, err := conn.SubmitProxyCall(ctx, m.Signer, m.Collator.Address, chainclient.NonTransfer, conn.BuildUpdateBond(finalBond), chainclient.DefaultMortality)
		if err != nil {
			return m.finishError(ctx, readOnly, "SubmissionError", err)
		}
		if updResult.Status == chainclient.Failed {
			return m.finishFailure(ctx, readOnly, updResult)
		}
	}

	out := Outcome{Kind: Registered, Bond: finalBond}
	m.maybeNotify(ctx, readOnly, notify.RegistrationSuccess, fmt.Sprintf("%s: registered with bond %s", m.Spec.ID, bond.FormatHuman(finalBond, m.Spec.TokenDecimals)))
	m.logger().Info("registered as candidate", "chain_id", m.Spec.ID, "bond", finalBond.String())
	return out
}

// finishFailure classifies a Failed SubmissionResult per spec §4.4/§7:
// any DispatchError not specifically handled by the caller becomes
// ManualActionRequired; everything else becomes an Error outcome.
func (m *Monitor) finishFailure(ctx context.Context, readOnly bool, result chainclient.SubmissionResult) Outcome {
	if result.Reason.Kind == chainclient.DispatchErrorReason {
		reason := fmt.Sprintf("%s.%s", result.Reason.Module, result.Reason.Name)
		out := Outcome{Kind: ManualActionRequired, Reason: reason}
		m.maybeNotify(ctx, readOnly, notify.ManualActionRequired, fmt.Sprintf("%s: manual action required: %s", m.Spec.ID, reason))
		return out
	}
	return m.finishError(ctx, readOnly, submissionErrKind(result.Reason.Kind), errors.New(result.Reason.String()))
}

func submissionErrKind(kind chainclient.FailReasonKind) string {
	switch kind {
	case chainclient.TimeoutReason:
		return "SubmissionTimeout"
	case chainclient.DroppedReason:
		return "Dropped"
	case chainclient.ConnectionLostReason:
		return "ConnectionLost"
	case chainclient.InvalidTransactionReason:
		return "InvalidTransaction"
	default:
		return "Internal"
	}
}

func (m *Monitor) finishError(ctx context.Context, readOnly bool, kind string, err error) Outcome {
	out := Outcome{Kind: ErrorOutcome, ErrKind: kind, ErrMessage: err.Error()}
	m.logger().Warn("chain scan error", "chain_id", m.Spec.ID, "kind", kind, "err", err)
	// Errors are printed (via the logger call above and the returned
	// Outcome) even in read-only status mode, but never Slack'd there
	// (spec §4.6 status()); maybeNotify enforces that via readOnly.
	m.maybeNotify(ctx, readOnly, notify.Error, fmt.Sprintf("%s: %s: %s", m.Spec.ID, kind, err.Error()))
	return out
}

func (m *Monitor) maybeNotify(ctx context.Context, readOnly bool, category notify.Category, message string) {
	if readOnly || m.Notifier == nil {
		return
	}
	m.Notifier.Emit(ctx, m.Spec.ID, category, message)
}

func (m *Monitor) logger() log.Logger {
	if m.Log != nil {
		return m.Log
	}
	return log.Root()
}
