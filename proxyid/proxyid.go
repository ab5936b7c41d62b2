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

// Package proxyid resolves the proxy account's secret material - a
// mnemonic, a hex seed, or a derivation URI - into a signing key, once
// and without network I/O (spec §3 ProxyIdentity, §9 key derivation).
package proxyid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/tyler-smith/go-bip39"

	"github.com/paraops/collator-watchdog/chainclient"
)

// ErrInvalidSeed is returned when the configured proxy seed does not
// match any of the three accepted shapes, or fails validation for the
// shape it matches.
var ErrInvalidSeed = errors.New("proxyid: invalid proxy seed")

// shape classifies the syntactic form of a seed string (spec §9: "hex
// starts with 0x and is exactly 66 chars; URI starts with //; otherwise
// treated as a mnemonic").
type shape int

const (
	shapeMnemonic shape = iota
	shapeHex
	shapeURI
)

func classify(seed string) shape {
	switch {
	case strings.HasPrefix(seed, "0x") && len(seed) == 66:
		return shapeHex
	case strings.HasPrefix(seed, "//"):
		return shapeURI
	default:
		return shapeMnemonic
	}
}

// Identity wraps a resolved signing key for the proxy account. It is
// shared immutably by all per-chain monitors (spec §3 Ownership).
type Identity struct {
	pair signature.KeyringPair
}

// PublicAddress implements chainclient.Signer.
func (id Identity) PublicAddress() chainclient.Address {
	return chainclient.Address(id.pair.Address)
}

// KeyringPair exposes the underlying gsrpc signing material for adapters
// that submit extrinsics (e.g. chainclient/substrate).
func (id Identity) KeyringPair() signature.KeyringPair {
	return id.pair
}

// Resolve derives the signing key for seed, disambiguating the three
// accepted formats by shape before handing off to gsrpc's own secret
// resolution. network is the SS58 address format byte for the target
// ecosystem (0 for Polkadot, 2 for Kusama).
func Resolve(seed string, network uint8) (Identity, error) {
	switch classify(seed) {
	case shapeMnemonic:
		if !bip39.IsMnemonicValid(strings.TrimSpace(seed)) {
			return Identity{}, fmt.Errorf("%w: not a valid BIP-39 mnemonic", ErrInvalidSeed)
		}
	case shapeHex:
		// length already checked by classify; gsrpc validates hex content.
	case shapeURI:
		if len(seed) <= 2 {
			return Identity{}, fmt.Errorf("%w: empty derivation URI", ErrInvalidSeed)
		}
	}

	pair, err := signature.KeyringPairFromSecret(seed, network)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidSeed, err)
	}
	return Identity{pair: pair}, nil
}
