// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakehive

import "math/big"

// Constants of the staking protocol.
const (
	// SecondsPerYear the accrual period the reward rate is quoted against.
	SecondsPerYear uint64 = 31_536_000

	// RateDenominator reward rates are expressed in basis points,
	// i.e. rate/RateDenominator is the annual fraction of principal accrued.
	RateDenominator uint64 = 10_000

	// DefaultDistributionInterval minimum spacing between bulk distributions. (unit: second)
	DefaultDistributionInterval uint64 = 24 * 60 * 60

	// DefaultDistributionBatchLimit max records settled per distribution step.
	DefaultDistributionBatchLimit = 256
)

// InitialRewardRate the reward rate an engine starts with unless configured
// otherwise. 500 basis points, 5% per year.
var InitialRewardRate = big.NewInt(500)
