// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

var rewardDivisor = new(big.Int).Mul(
	new(big.Int).SetUint64(stakehive.SecondsPerYear),
	new(big.Int).SetUint64(stakehive.RateDenominator),
)

// CalcReward computes the reward accrued by principal over elapsed seconds
// under the given annual rate (basis points):
//
//	principal * rate * elapsed / (SecondsPerYear * RateDenominator)
//
// Division truncates. Sub-unit remainders are lost, never carried forward.
func CalcReward(principal, rate *big.Int, elapsed uint64) *big.Int {
	if principal.Sign() <= 0 || rate.Sign() <= 0 || elapsed == 0 {
		return new(big.Int)
	}
	x := new(big.Int).SetUint64(elapsed)
	x.Mul(x, principal)
	x.Mul(x, rate)
	return x.Div(x, rewardDivisor)
}

// settle brings rec's accrued reward up to now under the engine's current
// rate. The snapshot timestamp is stamped unconditionally so that a deposit
// into an emptied record starts its clock at "now" rather than at some stale
// past instant. Returns the newly accrued amount.
func (e *Engine) settle(rec *StakeRecord, now uint64) *big.Int {
	if now <= rec.LastSettledAt {
		// never occurs under a monotonic clock
		return new(big.Int)
	}
	accrued := new(big.Int)
	if rec.Principal.Sign() > 0 {
		accrued = CalcReward(rec.Principal, e.rate, now-rec.LastSettledAt)
		rec.AccruedReward.Add(rec.AccruedReward, accrued)
	}
	rec.LastSettledAt = now
	return accrued
}
