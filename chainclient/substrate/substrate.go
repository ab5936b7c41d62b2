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

// Package substrate adapts github.com/centrifuge/go-substrate-rpc-client/v4
// onto the chainclient.Client facade. It is intentionally thin: gsrpc owns
// metadata decoding, SCALE encoding, extrinsic construction and watching
// for inclusion; this file only maps those shapes onto the narrow
// contract the core requires (chainclient.Client) and the collator
// selection pallet's specific storage items and calls.
package substrate

import (
	"context"
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"

	"github.com/paraops/collator-watchdog/chainclient"
)

// Dialer opens gsrpc connections. Logger is passed to every Client it
// produces; it is the one place in the repository that holds a
// hashicorp/go-hclog logger rather than a go-ethereum/log one, matching
// the boundary where a substrate-flavored tool in the wild (the sequencer
// this adapter is grounded on) does the same. The Client keeps it but
// emits no log lines of its own.
type Dialer struct {
	Logger hclog.Logger
}

func (d *Dialer) logger() hclog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return hclog.Default()
}

func (d *Dialer) Dial(ctx context.Context, rpcURL string) (chainclient.Client, error) {
	api, err := gsrpc.NewSubstrateAPI(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrConnect, err)
	}
	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %s", chainclient.ErrConnect, err)
	}
	genesisHash, err := api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return nil, fmt.Errorf("%w: genesis hash: %s", chainclient.ErrConnect, err)
	}
	return &Client{api: api, meta: meta, genesisHash: genesisHash, log: d.logger().Named("substrate")}, nil
}

// Client is one live gsrpc connection plus the latest metadata needed
// to build storage keys and calls.
type Client struct {
	api         *gsrpc.SubstrateAPI
	meta        *types.Metadata
	genesisHash types.Hash
	log         hclog.Logger
}

var _ chainclient.Client = (*Client)(nil)

func (c *Client) ReadInvulnerables(ctx context.Context) (map[chainclient.Address]struct{}, error) {
	key, err := types.CreateStorageKey(c.meta, "CollatorSelection", "Invulnerables")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	var raw []types.AccountID
	if _, err := c.api.RPC.State.GetStorageLatest(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	out := make(map[chainclient.Address]struct{}, len(raw))
	for _, acc := range raw {
		out[accountIDToAddress(acc)] = struct{}{}
	}
	return out, nil
}

func (c *Client) ReadCandidates(ctx context.Context) ([]chainclient.CandidateInfo, error) {
	key, err := types.CreateStorageKey(c.meta, "CollatorSelection", "Candidates")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	var raw []candidateInfoCodec
	if _, err := c.api.RPC.State.GetStorageLatest(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	out := make([]chainclient.CandidateInfo, 0, len(raw))
	for _, r := range raw {
		out = append(out, chainclient.CandidateInfo{Who: accountIDToAddress(r.Who), Deposit: u128ToUint256(r.Deposit)})
	}
	return out, nil
}

func (c *Client) ReadCandidacyBond(ctx context.Context) (*uint256.Int, error) {
	key, err := types.CreateStorageKey(c.meta, "CollatorSelection", "CandidacyBond")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	var raw types.U128
	if _, err := c.api.RPC.State.GetStorageLatest(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	return u128ToUint256(raw), nil
}

func (c *Client) ReadAccount(ctx context.Context, addr chainclient.Address) (chainclient.AccountInfo, error) {
	accountID, err := addressToAccountID(addr)
	if err != nil {
		return chainclient.AccountInfo{}, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	key, err := types.CreateStorageKey(c.meta, "System", "Account", accountID[:])
	if err != nil {
		return chainclient.AccountInfo{}, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	var raw systemAccountCodec
	ok, err := c.api.RPC.State.GetStorageLatest(key, &raw)
	if err != nil {
		return chainclient.AccountInfo{}, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	if !ok {
		return chainclient.AccountInfo{Free: uint256.NewInt(0), Reserved: uint256.NewInt(0), Frozen: uint256.NewInt(0)}, nil
	}
	return chainclient.AccountInfo{
		Free:     u128ToUint256(raw.Data.Free),
		Reserved: u128ToUint256(raw.Data.Reserved),
		Frozen:   u128ToUint256(raw.Data.Frozen),
	}, nil
}

func (c *Client) BuildRegisterAsCandidate() chainclient.InnerCall {
	call, err := types.NewCall(c.meta, "CollatorSelection.register_as_candidate")
	return &innerCall{label: "collatorSelection.registerAsCandidate", call: call, buildErr: err}
}

func (c *Client) BuildUpdateBond(newBond *uint256.Int) chainclient.InnerCall {
	call, err := types.NewCall(c.meta, "CollatorSelection.update_bond", uint256ToU128(newBond))
	return &innerCall{label: "collatorSelection.updateBond", call: call, buildErr: err}
}

// SubmitProxyCall wraps inner in Proxy.proxy(real, force_proxy_type,
// call), signs with signer's keyring pair and watches until InBlock or
// a terminal failure (spec §4.3: "waits for at least InBlock").
func (c *Client) SubmitProxyCall(ctx context.Context, signer chainclient.Signer, realAccount chainclient.Address, proxyType chainclient.ProxyType, inner chainclient.InnerCall, mortality chainclient.Mortality) (chainclient.SubmissionResult, error) {
	ic, ok := inner.(*innerCall)
	if !ok || ic.buildErr != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: malformed inner call", chainclient.ErrSigning)
	}
	pairHolder, ok := signer.(keyringPairHolder)
	if !ok {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: signer does not expose a gsrpc keyring pair", chainclient.ErrSigning)
	}
	pair := pairHolder.KeyringPair()

	realAccountID, err := addressToAccountID(realAccount)
	if err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrSigning, err)
	}

	proxyCall, err := types.NewCall(c.meta, "Proxy.proxy", realAccountID, proxyTypeVariant(proxyType), ic.call)
	if err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrSigning, err)
	}

	ext := types.NewExtrinsic(proxyCall)
	rv, err := c.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	nonce, err := c.api.RPC.System.AccountNextIndex(pair.PublicKey)
	if err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrRpcRead, err)
	}
	era := types.NewMortalEra(uint64ToEraPeriod(mortality.PeriodBlocks))

	opts := types.SignatureOptions{
		GenesisHash:        c.genesisHash,
		Era:                era,
		Nonce:              types.NewUCompactFromUInt(uint64(nonce)),
		SpecVersion:        rv.SpecVersion,
		TransactionVersion: rv.TransactionVersion,
	}
	if err := ext.Sign(pair, opts); err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrSigning, err)
	}

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return chainclient.SubmissionResult{}, fmt.Errorf("%w: %s", chainclient.ErrConnect, err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return chainclient.SubmissionResult{Status: chainclient.Failed, Reason: chainclient.FailReason{Kind: chainclient.TimeoutReason, Detail: ctx.Err().Error()}}, nil
		case status := <-sub.Chan():
			if res, done := classifyStatus(status); done {
				return res, nil
			}
		}
	}
}

func (c *Client) Close() error {
	return nil
}
