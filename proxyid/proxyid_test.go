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

package proxyid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyHex(t *testing.T) {
	hex := "0x" + repeat("ab", 32) // 0x + 64 hex chars = 66 total
	require.Len(t, hex, 66)
	require.Equal(t, shapeHex, classify(hex))
}

func TestClassifyURI(t *testing.T) {
	require.Equal(t, shapeURI, classify("//Alice"))
}

func TestClassifyMnemonicDefault(t *testing.T) {
	require.Equal(t, shapeMnemonic, classify("not a seed at all"))
}

func TestResolveRejectsInvalidMnemonic(t *testing.T) {
	_, err := Resolve("totally not twelve valid bip39 words here at all nope", 0)
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestResolveAcceptsValidMnemonic(t *testing.T) {
	const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	id, err := Resolve(testMnemonic, 0)
	require.NoError(t, err)
	require.NotEmpty(t, id.PublicAddress())
}

func TestResolveAcceptsURI(t *testing.T) {
	id, err := Resolve("//Alice", 0)
	require.NoError(t, err)
	require.NotEmpty(t, id.PublicAddress())
}

func TestResolveRejectsEmptyURI(t *testing.T) {
	_, err := Resolve("//", 0)
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
