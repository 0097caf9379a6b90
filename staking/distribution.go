// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

// distributionPass carries the resumption state of a bulk settlement:
// the remaining snapshot of the registry at pass start plus running totals.
type distributionPass struct {
	queue       []stakehive.Address
	startedAt   uint64
	distributed *big.Int
	settled     int
}

// DistributeBatch advances the bulk settlement by at most limit members
// (limit <= 0 selects stakehive.DefaultDistributionBatchLimit).
//
// The first call of a pass is gated by the cooldown: it fails with
// ErrCooldownActive unless now >= lastDistributionAt + interval, and on
// success snapshots the registry and stamps lastDistributionAt = now, so a
// pass in progress already gates the next one. Subsequent calls drain the
// snapshot; once it empties, RewardsDistributed is emitted with the total
// reward newly accrued across the pass.
//
// Distribution moves no value. It only advances per-participant accounting
// so later withdrawals reflect up-to-date rewards.
func (e *Engine) DistributeBatch(now uint64, limit int) (*DistributionResult, error) {
	if limit <= 0 {
		limit = stakehive.DefaultDistributionBatchLimit
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pass == nil {
		if now < e.lastDistributionAt+e.interval {
			return nil, ErrCooldownActive
		}
		e.pass = &distributionPass{
			queue:       e.registry.Members(),
			startedAt:   now,
			distributed: new(big.Int),
		}
		e.lastDistributionAt = now
	}

	pass := e.pass
	n := limit
	if n > len(pass.queue) {
		n = len(pass.queue)
	}
	for _, p := range pass.queue[:n] {
		// members withdrawn since the snapshot leave a zero record
		// behind; settling it only refreshes its clock.
		rec := e.record(p)
		pass.distributed.Add(pass.distributed, e.settle(rec, now))
	}
	pass.queue = pass.queue[n:]
	pass.settled += n

	res := &DistributionResult{
		Distributed: new(big.Int).Set(pass.distributed),
		Settled:     pass.settled,
		Remaining:   len(pass.queue),
		Done:        len(pass.queue) == 0,
	}
	if res.Done {
		e.pass = nil
		logger.Info("rewards distributed",
			"total", res.Distributed, "settled", res.Settled, "at", now)
		metricOpCount().AddWithLabel(1, map[string]string{"op": "distribute"})
		metricDistributedTotal().Add(res.Distributed.Int64())
		e.sink.Publish(&RewardsDistributed{
			At:      now,
			Total:   new(big.Int).Set(res.Distributed),
			Settled: uint32(res.Settled),
		})
	}
	return res, nil
}

// DistributeAll settles every registry member in one invocation by draining
// batches to completion. It fails with ErrCooldownActive, with zero state
// change, when called before the cooldown has elapsed.
func (e *Engine) DistributeAll(now uint64) (*big.Int, error) {
	for {
		res, err := e.DistributeBatch(now, 0)
		if err != nil {
			return nil, err
		}
		if res.Done {
			return res.Distributed, nil
		}
	}
}

// DistributionInProgress reports whether a batched pass has started but not
// yet drained its snapshot.
func (e *Engine) DistributionInProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pass != nil
}
