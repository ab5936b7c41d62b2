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

package chainclient

import "errors"

// Sentinel error kinds, matching the taxonomy in spec §7. Concrete
// errors returned by a Client implementation should wrap one of these
// with fmt.Errorf("%w: ...", ErrConnect) so callers can classify them
// with errors.Is.
var (
	// ErrConnect means the chain could not be reached at all.
	ErrConnect = errors.New("chainclient: connect error")

	// ErrRpcRead means a read succeeded at the transport level but
	// returned malformed or unexpected data. Spec §7 treats this the
	// same as ErrConnect for outcome purposes.
	ErrRpcRead = errors.New("chainclient: rpc read error")

	// ErrSubmissionTimeout means no inclusion was observed within the
	// inclusion timeout.
	ErrSubmissionTimeout = errors.New("chainclient: submission timeout")

	// ErrSigning means the proxy signer failed to sign at submission
	// time (as opposed to at startup derivation, which is fatal).
	ErrSigning = errors.New("chainclient: signing error")
)

// IsReadError reports whether err should be treated as a read/connect
// failure for outcome classification purposes.
func IsReadError(err error) bool {
	return errors.Is(err, ErrConnect) || errors.Is(err, ErrRpcRead)
}
