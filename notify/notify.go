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

// Package notify implements the rate-limited outbound alert channel
// (spec §4.5): per (chain, category) cooldowns, with a successful
// registration or bond update clearing every entry for that chain.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Category is the kind of event being reported.
type Category int

const (
	RegistrationSuccess Category = iota
	BondUpdated
	InsufficientFunds
	CannotCompete
	ManualActionRequired
	Error
)

func (c Category) String() string {
	switch c {
	case RegistrationSuccess:
		return "RegistrationSuccess"
	case BondUpdated:
		return "BondUpdated"
	case InsufficientFunds:
		return "InsufficientFunds"
	case CannotCompete:
		return "CannotCompete"
	case ManualActionRequired:
		return "ManualActionRequired"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// clears reports whether a Sent notification of this category should
// clear all rate-limit entries for its chain (spec §4.5).
func (c Category) clears() bool {
	return c == RegistrationSuccess || c == BondUpdated
}

// rateLimited reports whether this category is subject to the 4-hour
// cooldown, as opposed to always being sent.
func (c Category) rateLimited() bool {
	return !(c == RegistrationSuccess || c == BondUpdated)
}

// Outcome is the result of a single emit call.
type Outcome int

const (
	Sent Outcome = iota
	Suppressed
	DeliveryFailed
)

// CooldownWindow is the rate limit period for rate-limited categories
// (spec §4.5 table).
const CooldownWindow = 4 * time.Hour

type rateLimitKey struct {
	chainID  string
	category Category
}

type rateLimitEntry struct {
	lastSentAt      time.Time
	suppressedCount uint32
}

// Sender delivers a rendered message to the operator's channel. Kept as
// an interface so the rate-limiting logic above - the actual spec'd
// behavior - is testable without a live webhook.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Dispatcher is the process-wide, mutex-protected rate limit table plus
// delivery. It is owned exclusively by the orchestrator; monitors call
// Emit through it for the duration of one chain scan (spec §3 Ownership).
type Dispatcher struct {
	sender Sender
	log    log.Logger

	mu      sync.Mutex
	entries map[rateLimitKey]*rateLimitEntry

	now func() time.Time // overridable for tests
}

// New builds a Dispatcher. sender may be nil, in which case Emit always
// returns Suppressed-or-Sent bookkeeping without attempting delivery -
// the "notifications disabled" case (spec §6: "absent disables
// notifications").
func New(sender Sender, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Root()
	}
	return &Dispatcher{
		sender:  sender,
		log:     logger,
		entries: make(map[rateLimitKey]*rateLimitEntry),
		now:     time.Now,
	}
}

// Emit reports category on chainID with the given message, honoring the
// per (chain, category) cooldown and the success-driven clearing rule.
func (d *Dispatcher) Emit(ctx context.Context, chainID string, category Category, message string) Outcome {
	d.mu.Lock()

	key := rateLimitKey{chainID: chainID, category: category}
	suppressedSince := uint32(0)

	if category.rateLimited() {
		if entry, ok := d.entries[key]; ok {
			if d.now().Sub(entry.lastSentAt) < CooldownWindow {
				entry.suppressedCount++
				d.mu.Unlock()
				d.log.Debug("notification suppressed", "chain_id", chainID, "category", category.String(), "suppressed_count", entry.suppressedCount)
				return Suppressed
			}
			suppressedSince = entry.suppressedCount
		}
	}

	if suppressedSince > 0 {
		message = fmt.Sprintf("%s (%d suppressed)", message, suppressedSince)
	}

	d.mu.Unlock()

	if d.sender == nil {
		d.recordSent(chainID, category)
		return Sent
	}

	if err := d.sender.Send(ctx, message); err != nil {
		d.log.Warn("notification delivery failed", "chain_id", chainID, "category", category.String(), "err", err)
		return DeliveryFailed
	}

	d.recordSent(chainID, category)
	return Sent
}

// SetClock overrides the dispatcher's time source. Exposed for tests
// that need to exercise the cooldown window deterministically.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

func (d *Dispatcher) recordSent(chainID string, category Category) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if category.clears() {
		for k := range d.entries {
			if k.chainID == chainID {
				delete(d.entries, k)
			}
		}
		return
	}

	key := rateLimitKey{chainID: chainID, category: category}
	d.entries[key] = &rateLimitEntry{lastSentAt: d.now()}
}
