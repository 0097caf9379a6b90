// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakehive/stakehive/stakehive"
)

// Amount renders big.Int values as decimal or 0x-prefixed hex strings.
type Amount math.HexOrDecimal256

func amount(v *big.Int) *Amount {
	if v == nil {
		v = new(big.Int)
	}
	return (*Amount)(new(big.Int).Set(v))
}

func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return (*big.Int)(a)
}

func (a Amount) MarshalText() ([]byte, error) {
	return (*math.HexOrDecimal256)(&a).MarshalText()
}

func (a *Amount) UnmarshalJSON(input []byte) error {
	return (*math.HexOrDecimal256)(a).UnmarshalJSON(input)
}

type DepositRequest struct {
	Amount *Amount `json:"amount"`
}

type StakeResponse struct {
	Participant   stakehive.Address `json:"participant"`
	Principal     *Amount           `json:"principal"`
	AccruedReward *Amount           `json:"accruedReward"`
	PendingReward *Amount           `json:"pendingReward"`
	LastSettledAt uint64            `json:"lastSettledAt"`
}

type WithdrawalResponse struct {
	Participant stakehive.Address `json:"participant"`
	Principal   *Amount           `json:"principal"`
	Reward      *Amount           `json:"reward"`
}

type ParticipantsResponse struct {
	Count int `json:"count"`
}

type DistributeRequest struct {
	Limit int `json:"limit"`
}

type DistributionResponse struct {
	Distributed *Amount `json:"distributed"`
	Settled     int     `json:"settled"`
	Remaining   int     `json:"remaining"`
	Done        bool    `json:"done"`
}

type DistributionStatusResponse struct {
	LastDistributionAt uint64 `json:"lastDistributionAt"`
	Interval           uint64 `json:"interval"`
	InProgress         bool   `json:"inProgress"`
}

type RateRequest struct {
	Rate *Amount `json:"rate"`
}

type RateResponse struct {
	Rate *Amount `json:"rate"`
}

type RateUpdateResponse struct {
	OldRate *Amount `json:"oldRate"`
	Rate    *Amount `json:"rate"`
}
