// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
)

// StakeRecord is the per-participant accounting state.
// Principal == 0 means the participant is logically absent; the zero-valued
// record may stay in the ledger after a full withdrawal.
type StakeRecord struct {
	Principal     *big.Int
	AccruedReward *big.Int
	LastSettledAt uint64
}

func newStakeRecord() *StakeRecord {
	return &StakeRecord{
		Principal:     new(big.Int),
		AccruedReward: new(big.Int),
	}
}

// Withdrawal is the outcome of a full withdrawal, split for reporting.
// The caller owns the actual value transfer.
type Withdrawal struct {
	Principal *big.Int
	Reward    *big.Int
}

// Total returns principal + reward.
func (w *Withdrawal) Total() *big.Int {
	return new(big.Int).Add(w.Principal, w.Reward)
}

// DistributionResult reports progress of a bulk settlement pass.
type DistributionResult struct {
	// Distributed is the reward newly accrued during the whole pass so far.
	Distributed *big.Int
	// Settled is the number of records brought up to date so far.
	Settled int
	// Remaining is the number of snapshot members not yet settled.
	Remaining int
	// Done reports whether the pass has drained its snapshot.
	Done bool
}
