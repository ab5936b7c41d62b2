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

package substrate

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/holiman/uint256"

	"github.com/paraops/collator-watchdog/chainclient"
)

// candidateInfoCodec mirrors pallet_collator_selection::CandidateInfo.
type candidateInfoCodec struct {
	Who     types.AccountID
	Deposit types.U128
}

// systemAccountCodec mirrors frame_system::AccountInfo as stored for
// the balances pallet's AccountData.
type systemAccountCodec struct {
	Nonce       types.U32
	Consumers   types.U32
	Providers   types.U32
	Sufficients types.U32
	Data        struct {
		Free     types.U128
		Reserved types.U128
		Frozen   types.U128
		Flags    types.U128
	}
}

// innerCall is an opaque, already-built runtime call plus a label for
// logging (chainclient.InnerCall).
type innerCall struct {
	label    string
	call     types.Call
	buildErr error
}

func (c *innerCall) Describe() string { return c.label }

// keyringPairHolder is implemented by proxyid.Identity; the adapter is
// the only place outside proxyid that needs the raw gsrpc signing
// material, so chainclient.Signer stays an opaque interface elsewhere.
type keyringPairHolder interface {
	KeyringPair() signature.KeyringPair
}

func accountIDToAddress(id types.AccountID) chainclient.Address {
	return chainclient.Address(fmt.Sprintf("0x%x", id[:]))
}

func addressToAccountID(addr chainclient.Address) (types.AccountID, error) {
	var id types.AccountID
	_, err := fmt.Sscanf(string(addr), "0x%x", &id)
	return id, err
}

func u128ToUint256(v types.U128) *uint256.Int {
	out := new(uint256.Int)
	if v.Int == nil {
		return out
	}
	out.SetFromBig(v.Int)
	return out
}

func uint256ToU128(v *uint256.Int) types.U128 {
	return types.NewU128(*v.ToBig())
}

func proxyTypeVariant(pt chainclient.ProxyType) types.ProxyType {
	switch pt {
	case chainclient.NonTransfer:
		return types.ProxyType(1)
	default:
		return types.ProxyType(0)
	}
}

func uint64ToEraPeriod(blocks uint64) uint64 {
	if blocks == 0 {
		return 64
	}
	return blocks
}

// classifyStatus maps gsrpc's subscription status onto chainclient's
// terminal shapes. TODO: decode system.Events at the included block to
// surface a DispatchErrorReason with module/name instead of reporting
// InBlock; until then a module-rejected proxy call is seen here as
// included, and the monitor's finishFailure path is only reached via
// failures gsrpc itself classifies (dropped/invalid/usurped/timeout).
func classifyStatus(status types.ExtrinsicStatus) (chainclient.SubmissionResult, bool) {
	switch {
	case status.IsInBlock:
		return chainclient.SubmissionResult{Status: chainclient.InBlock, BlockHash: status.AsInBlock.Hex()}, true
	case status.IsFinalized:
		return chainclient.SubmissionResult{Status: chainclient.Finalized, BlockHash: status.AsFinalized.Hex()}, true
	case status.IsDropped:
		return chainclient.SubmissionResult{Status: chainclient.Failed, Reason: chainclient.FailReason{Kind: chainclient.DroppedReason, Detail: "extrinsic dropped from the pool"}}, true
	case status.IsInvalid:
		return chainclient.SubmissionResult{Status: chainclient.Failed, Reason: chainclient.FailReason{Kind: chainclient.InvalidTransactionReason, Detail: "extrinsic rejected as invalid"}}, true
	case status.IsUsurped:
		return chainclient.SubmissionResult{Status: chainclient.Failed, Reason: chainclient.FailReason{Kind: chainclient.ConnectionLostReason, Detail: "extrinsic usurped by a competing transaction"}}, true
	case status.IsFinalityTimeout:
		return chainclient.SubmissionResult{Status: chainclient.Failed, Reason: chainclient.FailReason{Kind: chainclient.TimeoutReason, Detail: "finality timeout"}}, true
	default:
		return chainclient.SubmissionResult{}, false
	}
}
