// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

// Event is one stored engine event. Amount and Aux carry the event's two
// value fields:
//
//	Deposited:          Amount = deposit amount
//	Withdrawn:          Amount = principal portion, Aux = reward portion
//	RewardsDistributed: Amount = total distributed,  Aux = records settled
//	RateUpdated:        Amount = new rate,           Aux = old rate
type Event struct {
	Sequence    uint64             `json:"sequence"`
	Time        uint64             `json:"time"`
	Name        string             `json:"name"`
	Topic       stakehive.Bytes32  `json:"topic"`
	Participant *stakehive.Address `json:"participant,omitempty"`
	Amount      *big.Int           `json:"amount"`
	Aux         *big.Int           `json:"aux,omitempty"`
}

// convertEvent flattens an engine event into its stored form.
func convertEvent(ev staking.Event) (*Event, error) {
	out := &Event{
		Time:  ev.Time(),
		Name:  ev.Name(),
		Topic: stakehive.Blake2b([]byte(ev.Name())),
	}
	switch ev := ev.(type) {
	case *staking.Deposited:
		p := ev.Participant
		out.Participant = &p
		out.Amount = ev.Amount
	case *staking.Withdrawn:
		p := ev.Participant
		out.Participant = &p
		out.Amount = ev.Principal
		out.Aux = ev.Reward
	case *staking.RewardsDistributed:
		out.Amount = ev.Total
		out.Aux = new(big.Int).SetUint64(uint64(ev.Settled))
	case *staking.RateUpdated:
		out.Amount = ev.NewRate
		out.Aux = ev.OldRate
	default:
		return nil, errors.Errorf("eventdb: unknown event %q", ev.Name())
	}
	return out, nil
}

// Order describes the result ordering of a filter.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// TimeRange limits a filter to [From, To] event time.
type TimeRange struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Options paginates filter results.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events.
type Filter struct {
	Name        string             `json:"name,omitempty"`
	Participant *stakehive.Address `json:"participant,omitempty"`
	Range       *TimeRange         `json:"range,omitempty"`
	Order       Order              `json:"order,omitempty"`
	Options     *Options           `json:"options,omitempty"`
}
