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

// Package bond implements the fixed-point balance and bond-sizing
// arithmetic the monitor relies on. All balances are non-negative,
// 256-bit integers in the chain's smallest unit; no floating
// point appears anywhere in a decision path.
package bond

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// Balance is a non-negative integer amount in a chain's smallest unit.
type Balance = uint256.Int

// Zero returns the zero balance.
func Zero() *Balance {
	return uint256.NewInt(0)
}

// Cap computes max(0, free-reserve), saturating at zero instead of
// wrapping (spec §4.2, §3 invariant on Balance).
func Cap(free, reserve *Balance) *Balance {
	out := new(uint256.Int)
	_, underflow := out.SubOverflow(free, reserve)
	if underflow {
		return Zero()
	}
	return out
}

// Epsilon returns the thrash-prevention threshold used when deciding
// whether a bond top-up is worth submitting: a fixed fraction - a tenth -
// of the chain's configured reserve (see DESIGN.md).
func Epsilon(reserve *Balance) *Balance {
	return new(uint256.Int).Div(reserve, uint256.NewInt(10))
}

// GreaterThanWithEpsilon reports whether target exceeds current by more
// than eps, i.e. whether a bond update is worth submitting.
func GreaterThanWithEpsilon(target, current, eps *Balance) bool {
	threshold := new(uint256.Int).Add(current, eps)
	return target.Gt(threshold)
}

// FormatHuman renders a smallest-unit balance as a human decimal string
// with `decimals` fractional digits, trimming trailing zeros. Display
// only - never used in a decision path.
func FormatHuman(bal *Balance, decimals uint8) string {
	s := bal.Dec()
	if decimals == 0 {
		return s
	}
	// Left-pad so there are at least decimals+1 digits to split.
	for len(s) <= int(decimals) {
		s = "0" + s
	}
	intPart := s[:len(s)-int(decimals)]
	fracPart := strings.TrimRight(s[len(s)-int(decimals):], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// ErrPrecision is returned by ParseHuman when the input has more
// fractional digits than the chain supports.
var ErrPrecision = errors.New("bond: value exceeds chain precision")

// ParseHuman parses a human-entered decimal amount into smallest units,
// rejecting any value whose fractional part would exceed decimals.
func ParseHuman(s string, decimals uint8) (*Balance, error) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if hasFrac && len(fracPart) > int(decimals) {
		return nil, ErrPrecision
	}
	for len(fracPart) < int(decimals) {
		fracPart += "0"
	}
	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	out, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, err
	}
	return out, nil
}
