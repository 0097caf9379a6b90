// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/reverts"
)

var logger = log.WithContext("pkg", "staking")

// Precondition failures surfaced to callers. Each one rejects the whole
// invocation with no state change.
var (
	ErrInvalidAmount  = reverts.New("deposit amount must be positive")
	ErrNoStake        = reverts.New("no stake to withdraw")
	ErrCooldownActive = reverts.New("distribution cooldown active")
	ErrInvalidRate    = reverts.New("reward rate must be positive")
)

// Options tunes a new engine.
type Options struct {
	// Rate is the initial reward rate in basis points. Defaults to
	// stakehive.InitialRewardRate. Must be positive when set.
	Rate *big.Int
	// DistributionInterval is the minimum spacing between bulk
	// distributions in seconds. Defaults to
	// stakehive.DefaultDistributionInterval.
	DistributionInterval uint64
	// Sink receives emitted events. Defaults to a no-op sink.
	Sink EventSink
}

// Engine owns the whole accrual-and-distribution state: the stake ledger,
// the participant registry, the reward rate and the distribution schedule.
// Every operation runs serialized and all-or-nothing; preconditions are
// checked before any mutation.
type Engine struct {
	mu sync.Mutex

	ledger   map[stakehive.Address]*StakeRecord
	registry *Registry

	rate     *big.Int
	interval uint64

	lastDistributionAt uint64
	pass               *distributionPass

	sink EventSink
}

// NewEngine creates an empty engine.
func NewEngine(opts Options) (*Engine, error) {
	rate := opts.Rate
	if rate == nil {
		rate = stakehive.InitialRewardRate
	}
	if rate.Sign() <= 0 {
		return nil, errors.WithMessage(ErrInvalidRate, "new engine")
	}
	interval := opts.DistributionInterval
	if interval == 0 {
		interval = stakehive.DefaultDistributionInterval
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	return &Engine{
		ledger:   make(map[stakehive.Address]*StakeRecord),
		registry: NewRegistry(),
		rate:     new(big.Int).Set(rate),
		interval: interval,
		sink:     sink,
	}, nil
}

// record returns the participant's record, implicitly creating a zero-valued
// one on first reference.
func (e *Engine) record(p stakehive.Address) *StakeRecord {
	rec, ok := e.ledger[p]
	if !ok {
		rec = newStakeRecord()
		e.ledger[p] = rec
	}
	return rec
}

// Deposit settles the participant's record up to now, then adds amount to
// its principal. The zero-to-positive principal transition registers the
// participant for bulk distribution. The custody layer must have received
// the corresponding value before calling.
func (e *Engine) Deposit(p stakehive.Address, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.record(p)
	e.settle(rec, now)

	if rec.Principal.Sign() == 0 {
		e.registry.Add(p)
		metricParticipantCount().Set(int64(e.registry.Len()))
	}
	rec.Principal.Add(rec.Principal, amount)

	logger.Debug("deposit", "participant", p, "amount", amount)
	metricOpCount().AddWithLabel(1, map[string]string{"op": "deposit"})
	e.sink.Publish(&Deposited{At: now, Participant: p, Amount: new(big.Int).Set(amount)})
	return nil
}

// Withdraw settles, then empties the participant's full position. The record
// is zeroed and the participant deregistered before the payout is returned,
// so nothing observes a stale nonzero balance while the surrounding custody
// layer moves value.
func (e *Engine) Withdraw(p stakehive.Address, now uint64) (*Withdrawal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.ledger[p]
	if !ok || rec.Principal.Sign() == 0 {
		return nil, ErrNoStake
	}
	e.settle(rec, now)

	payout := &Withdrawal{
		Principal: new(big.Int).Set(rec.Principal),
		Reward:    new(big.Int).Set(rec.AccruedReward),
	}
	rec.Principal.SetUint64(0)
	rec.AccruedReward.SetUint64(0)
	if err := e.registry.Remove(p); err != nil {
		// registry membership equals {principal > 0}, so this is unreachable
		return nil, errors.WithMessage(err, "withdraw")
	}

	logger.Debug("withdraw", "participant", p, "principal", payout.Principal, "reward", payout.Reward)
	metricOpCount().AddWithLabel(1, map[string]string{"op": "withdraw"})
	metricParticipantCount().Set(int64(e.registry.Len()))
	e.sink.Publish(&Withdrawn{
		At:          now,
		Participant: p,
		Principal:   new(big.Int).Set(payout.Principal),
		Reward:      new(big.Int).Set(payout.Reward),
	})
	return payout, nil
}

// SetRate replaces the reward rate. The change is prospective only: a later
// settlement applies the rate in effect at settlement time to the entire
// elapsed interval, with no pro-rating across the change.
func (e *Engine) SetRate(newRate *big.Int, now uint64) error {
	if newRate == nil || newRate.Sign() <= 0 {
		return ErrInvalidRate
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.rate
	e.rate = new(big.Int).Set(newRate)

	logger.Info("reward rate updated", "old", old, "new", newRate)
	e.sink.Publish(&RateUpdated{At: now, OldRate: old, NewRate: new(big.Int).Set(newRate)})
	return nil
}

// PendingReward computes the as-of-now reward owed to the participant
// without persisting a settlement.
func (e *Engine) PendingReward(p stakehive.Address, now uint64) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.ledger[p]
	if !ok {
		return new(big.Int)
	}
	pending := new(big.Int).Set(rec.AccruedReward)
	if now > rec.LastSettledAt && rec.Principal.Sign() > 0 {
		pending.Add(pending, CalcReward(rec.Principal, e.rate, now-rec.LastSettledAt))
	}
	return pending
}

// Stake returns a copy of the participant's current record, or nil if the
// participant has never deposited.
func (e *Engine) Stake(p stakehive.Address) *StakeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.ledger[p]
	if !ok {
		return nil
	}
	return &StakeRecord{
		Principal:     new(big.Int).Set(rec.Principal),
		AccruedReward: new(big.Int).Set(rec.AccruedReward),
		LastSettledAt: rec.LastSettledAt,
	}
}

// ParticipantCount returns the number of currently staked participants.
func (e *Engine) ParticipantCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Len()
}

// Participants returns a snapshot of the active participant set.
func (e *Engine) Participants() []stakehive.Address {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Members()
}

// Rate returns the current reward rate in basis points.
func (e *Engine) Rate() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.rate)
}

// LastDistribution returns the time of the last successful distribution.
func (e *Engine) LastDistribution() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDistributionAt
}

// DistributionInterval returns the configured cooldown in seconds.
func (e *Engine) DistributionInterval() uint64 {
	return e.interval
}
