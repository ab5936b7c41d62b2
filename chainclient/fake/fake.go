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

// Package fake is a deterministic, in-memory chainclient.Client double.
// It is the backend the monitor and orchestrator test suites actually
// drive; the substrate adapter is wiring depth for production use, not
// a test dependency.
package fake

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/paraops/collator-watchdog/chainclient"
)

// Call records one BuildRegisterAsCandidate/BuildUpdateBond/SubmitProxyCall
// invocation for assertions in tests.
type Call struct {
	Kind   string // "register" or "update_bond"
	Amount *uint256.Int
}

type innerCall struct {
	label  string
	amount *uint256.Int
}

func (c innerCall) Describe() string { return c.label }

// Client is a fully scripted chain client: tests set up the desired
// observation and queue submission results/errors up front.
type Client struct {
	Invulnerables    map[chainclient.Address]struct{}
	Candidates       []chainclient.CandidateInfo
	MinCandidacyBond *uint256.Int
	Accounts         map[chainclient.Address]chainclient.AccountInfo

	// SubmitResults is consumed in order, one entry per SubmitProxyCall.
	SubmitResults []chainclient.SubmissionResult
	SubmitErrs    []error

	ReadErr error

	Calls  []Call
	Closed bool
}

var _ chainclient.Client = (*Client)(nil)

func New() *Client {
	return &Client{
		Invulnerables: map[chainclient.Address]struct{}{},
		Accounts:      map[chainclient.Address]chainclient.AccountInfo{},
	}
}

func (c *Client) ReadInvulnerables(ctx context.Context) (map[chainclient.Address]struct{}, error) {
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}
	return c.Invulnerables, nil
}

func (c *Client) ReadCandidates(ctx context.Context) ([]chainclient.CandidateInfo, error) {
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}
	return c.Candidates, nil
}

func (c *Client) ReadCandidacyBond(ctx context.Context) (*uint256.Int, error) {
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}
	return c.MinCandidacyBond, nil
}

func (c *Client) ReadAccount(ctx context.Context, addr chainclient.Address) (chainclient.AccountInfo, error) {
	if c.ReadErr != nil {
		return chainclient.AccountInfo{}, c.ReadErr
	}
	acc, ok := c.Accounts[addr]
	if !ok {
		return chainclient.AccountInfo{Free: uint256.NewInt(0), Reserved: uint256.NewInt(0), Frozen: uint256.NewInt(0)}, nil
	}
	return acc, nil
}

func (c *Client) BuildRegisterAsCandidate() chainclient.InnerCall {
	return innerCall{label: "collatorSelection.registerAsCandidate"}
}

func (c *Client) BuildUpdateBond(newBond *uint256.Int) chainclient.InnerCall {
	return innerCall{label: "collatorSelection.updateBond", amount: newBond}
}

func (c *Client) SubmitProxyCall(ctx context.Context, signer chainclient.Signer, realAccount chainclient.Address, proxyType chainclient.ProxyType, inner chainclient.InnerCall, mortality chainclient.Mortality) (chainclient.SubmissionResult, error) {
	ic := inner.(innerCall)
	kind := "register"
	if ic.amount != nil {
		kind = "update_bond"
	}
	c.Calls = append(c.Calls, Call{Kind: kind, Amount: ic.amount})

	idx := len(c.Calls) - 1
	if idx < len(c.SubmitErrs) && c.SubmitErrs[idx] != nil {
		return chainclient.SubmissionResult{}, c.SubmitErrs[idx]
	}
	if idx < len(c.SubmitResults) {
		return c.SubmitResults[idx], nil
	}
	return chainclient.SubmissionResult{Status: chainclient.InBlock}, nil
}

func (c *Client) Close() error {
	c.Closed = true
	return nil
}

// SetBalance is a test helper for populating Accounts.
func (c *Client) SetBalance(addr chainclient.Address, free, reserved uint64) {
	c.Accounts[addr] = chainclient.AccountInfo{
		Free:     uint256.NewInt(free),
		Reserved: uint256.NewInt(reserved),
		Frozen:   uint256.NewInt(0),
	}
}

// Dialer always returns the same pre-built Client, or DialErr if set.
type Dialer struct {
	Client  *Client
	DialErr error
}

func (d *Dialer) Dial(ctx context.Context, rpcURL string) (chainclient.Client, error) {
	if d.DialErr != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrConnect, d.DialErr)
	}
	return d.Client, nil
}
