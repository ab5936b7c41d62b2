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

// Package chainclient defines the narrow contract the core requires from
// a chain connection (spec §4.3). The transport, metadata decoding and
// extrinsic signing behind it are assumed external; this package only
// pins down the interface and the result/error shapes the monitor
// classifies on. See chainclient/substrate for one concrete adapter and
// chainclient/fake for the deterministic double the test suite drives.
package chainclient

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
)

// Address is an ecosystem-scoped account address (SS58 string form).
type Address string

// ProxyType mirrors the on-chain proxy authority kinds; the core only
// ever uses NonTransfer (spec §1, §4.3).
type ProxyType string

const NonTransfer ProxyType = "NonTransfer"

// Signer is anything that can sign on behalf of the proxy account. The
// concrete type is produced by package proxyid and is opaque to the
// core - the facade implementation is the only thing that inspects it.
type Signer interface {
	// PublicAddress returns the proxy's own on-chain address.
	PublicAddress() Address
}

// CandidateInfo is one entry in the collator candidate set.
type CandidateInfo struct {
	Who     Address
	Deposit *uint256.Int
}

// AccountInfo is the subset of account balance state the core needs.
type AccountInfo struct {
	Free     *uint256.Int
	Reserved *uint256.Int
	Frozen   *uint256.Int
}

// Observation is one chain's state as read at the start of a scan (spec
// §3 ChainObservation). It is read-only downstream and discarded once
// the monitor has produced an outcome.
type Observation struct {
	Invulnerables      map[Address]struct{}
	Candidates         []CandidateInfo
	MinCandidacyBond   *uint256.Int
	CollatorAccount    AccountInfo
}

// InnerCall is an opaque, chain-specific extrinsic call built by
// BuildRegisterAsCandidate/BuildUpdateBond, to be wrapped in a proxy
// call and submitted.
type InnerCall interface {
	// Describe returns a short human-readable label for logging, e.g.
	// "collatorSelection.registerAsCandidate".
	Describe() string
}

// SubmissionStatus is the terminal state of a submitted extrinsic.
type SubmissionStatus int

const (
	InBlock SubmissionStatus = iota
	Finalized
	Failed
)

// FailReasonKind discriminates why a submission failed (spec §4.3).
type FailReasonKind int

const (
	DispatchErrorReason FailReasonKind = iota
	InvalidTransactionReason
	DroppedReason
	ConnectionLostReason
	TimeoutReason
)

// FailReason describes a failed submission. Module/Name are populated
// only for DispatchErrorReason.
type FailReason struct {
	Kind   FailReasonKind
	Module string
	Name   string
	Detail string
}

func (r FailReason) String() string {
	if r.Kind == DispatchErrorReason {
		return fmt.Sprintf("dispatch error %s.%s: %s", r.Module, r.Name, r.Detail)
	}
	return r.Detail
}

// IsAlreadyCandidate reports whether a dispatch error corresponds to the
// chain already knowing the account as a candidate (spec §4.4: "not an
// error - coerced to the AlreadyCandidate path").
func (r FailReason) IsAlreadyCandidate() bool {
	return r.Kind == DispatchErrorReason && r.Name == "AlreadyCandidate"
}

// IsTooManyCandidates reports whether a dispatch error means the
// candidate pool is full (spec §4.4 CannotCompete trigger).
func (r FailReason) IsTooManyCandidates() bool {
	return r.Kind == DispatchErrorReason && r.Name == "TooManyCandidates"
}

// SubmissionResult is the outcome of submit_proxy_call.
type SubmissionResult struct {
	Status         SubmissionStatus
	BlockHash      string
	ExtrinsicIndex uint32
	Reason         FailReason
}

// Mortality bounds the lifetime of a submitted extrinsic so a dropped
// transaction cannot replay indefinitely (spec §4.3).
type Mortality struct {
	PeriodBlocks uint64
}

// DefaultMortality is a conservative, short mortal era.
var DefaultMortality = Mortality{PeriodBlocks: 64}

// Client is the full facade the core requires from a chain connection.
// Every method is context-aware so callers can bound RPC and inclusion
// waits (spec §5: 60s per call, 5m for inclusion, recommended).
type Client interface {
	ReadInvulnerables(ctx context.Context) (map[Address]struct{}, error)
	ReadCandidates(ctx context.Context) ([]CandidateInfo, error)
	ReadCandidacyBond(ctx context.Context) (*uint256.Int, error)
	ReadAccount(ctx context.Context, addr Address) (AccountInfo, error)

	BuildRegisterAsCandidate() InnerCall
	BuildUpdateBond(newBond *uint256.Int) InnerCall

	SubmitProxyCall(ctx context.Context, signer Signer, realAccount Address, proxyType ProxyType, inner InnerCall, mortality Mortality) (SubmissionResult, error)

	// Close releases any connection resources.
	Close() error
}

// Dialer opens a Client connection to a chain's RPC endpoint. Kept
// separate from Client so tests can substitute a canned dial.
type Dialer interface {
	Dial(ctx context.Context, rpcURL string) (Client, error)
}

// Observe is a convenience that performs the four reads spec'd reads
// needed to build an Observation (spec §4.4 step 3), stopping at the
// first error.
func Observe(ctx context.Context, c Client, collator Address) (Observation, error) {
	var obs Observation

	invuln, err := c.ReadInvulnerables(ctx)
	if err != nil {
		return obs, err
	}
	candidates, err := c.ReadCandidates(ctx)
	if err != nil {
		return obs, err
	}
	minBond, err := c.ReadCandidacyBond(ctx)
	if err != nil {
		return obs, err
	}
	acc, err := c.ReadAccount(ctx, collator)
	if err != nil {
		return obs, err
	}

	obs.Invulnerables = invuln
	obs.Candidates = candidates
	obs.MinCandidacyBond = minBond
	obs.CollatorAccount = acc
	return obs, nil
}
