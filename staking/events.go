// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

// Event names, as surfaced to the event store and subscribers.
const (
	EventNameDeposited          = "Deposited"
	EventNameWithdrawn          = "Withdrawn"
	EventNameRewardsDistributed = "RewardsDistributed"
	EventNameRateUpdated        = "RateUpdated"
)

// Event is an accounting fact emitted by the engine.
type Event interface {
	// Name identifies the event kind.
	Name() string
	// Time is the engine time the event was produced at. (unit: second)
	Time() uint64
}

type Deposited struct {
	At          uint64
	Participant stakehive.Address
	Amount      *big.Int
}

func (ev *Deposited) Name() string { return EventNameDeposited }
func (ev *Deposited) Time() uint64 { return ev.At }

type Withdrawn struct {
	At          uint64
	Participant stakehive.Address
	Principal   *big.Int
	Reward      *big.Int
}

func (ev *Withdrawn) Name() string { return EventNameWithdrawn }
func (ev *Withdrawn) Time() uint64 { return ev.At }

type RewardsDistributed struct {
	At      uint64
	Total   *big.Int
	Settled uint32
}

func (ev *RewardsDistributed) Name() string { return EventNameRewardsDistributed }
func (ev *RewardsDistributed) Time() uint64 { return ev.At }

type RateUpdated struct {
	At      uint64
	OldRate *big.Int
	NewRate *big.Int
}

func (ev *RateUpdated) Name() string { return EventNameRateUpdated }
func (ev *RateUpdated) Time() uint64 { return ev.At }

// EventSink receives events as they are produced. Publish is called within
// the engine's serialized section and must not call back into the engine.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}

// MultiSink fans an event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Publish(ev Event) {
	for _, s := range m {
		s.Publish(ev)
	}
}
