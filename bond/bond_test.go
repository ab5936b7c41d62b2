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

package bond

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCapSaturatesAtZero(t *testing.T) {
	free := uint256.NewInt(5)
	reserve := uint256.NewInt(10)
	require.True(t, Cap(free, reserve).IsZero())
}

func TestCapNormal(t *testing.T) {
	free := uint256.NewInt(100)
	reserve := uint256.NewInt(1)
	require.Equal(t, uint256.NewInt(99), Cap(free, reserve))
}

func TestCapEqualYieldsZero(t *testing.T) {
	free := uint256.NewInt(7)
	reserve := uint256.NewInt(7)
	require.True(t, Cap(free, reserve).IsZero())
}

func TestGreaterThanWithEpsilon(t *testing.T) {
	current := uint256.NewInt(50)
	eps := uint256.NewInt(1)

	require.False(t, GreaterThanWithEpsilon(uint256.NewInt(50), current, eps))
	require.False(t, GreaterThanWithEpsilon(uint256.NewInt(51), current, eps))
	require.True(t, GreaterThanWithEpsilon(uint256.NewInt(52), current, eps))
}

func TestFormatHuman(t *testing.T) {
	cases := []struct {
		val      uint64
		decimals uint8
		want     string
	}{
		{999000000000, 10, "99.9"},
		{100000000000, 10, "10"},
		{0, 10, "0"},
		{5, 0, "5"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatHuman(uint256.NewInt(c.val), c.decimals))
	}
}

func TestParseHumanRoundTrip(t *testing.T) {
	bal, err := ParseHuman("99.9", 10)
	require.NoError(t, err)
	require.Equal(t, "999000000000", bal.Dec())
}

func TestParseHumanRejectsExcessPrecision(t *testing.T) {
	_, err := ParseHuman("1.23456", 2)
	require.ErrorIs(t, err, ErrPrecision)
}

func TestEpsilonIsTenthOfReserve(t *testing.T) {
	reserve := uint256.NewInt(100)
	require.Equal(t, uint256.NewInt(10), Epsilon(reserve))
}
