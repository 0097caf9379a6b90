// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stakehive/stakehive/stakehive"
)

func TestCalcReward(t *testing.T) {
	year := stakehive.SecondsPerYear

	tests := []struct {
		name      string
		principal *big.Int
		rate      *big.Int
		elapsed   uint64
		expected  *big.Int
	}{
		{"full year at 5%", big.NewInt(1_000_000), big.NewInt(500), year, big.NewInt(50_000)},
		{"half year at 5%", big.NewInt(1_000_000), big.NewInt(500), year / 2, big.NewInt(25_000)},
		{"full year at 10%", big.NewInt(2_000_000), big.NewInt(1000), year, big.NewInt(200_000)},
		{"one second on one unit floors to zero", big.NewInt(1), big.NewInt(500), 1, big.NewInt(0)},
		{"zero elapsed", big.NewInt(1_000_000), big.NewInt(500), 0, big.NewInt(0)},
		{"zero principal", big.NewInt(0), big.NewInt(500), year, big.NewInt(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.String(), CalcReward(tt.principal, tt.rate, tt.elapsed).String())
		})
	}
}

func TestCalcRewardFloors(t *testing.T) {
	// 1000 units at 5% over one second:
	// 1000 * 500 * 1 / (31_536_000 * 10_000) = 0 remainder 500_000
	assert.Equal(t, big.NewInt(0).String(), CalcReward(big.NewInt(1000), big.NewInt(500), 1).String())

	// remainders are not carried: settling every second forever yields
	// strictly less than one settlement over the same span
	perSecond := CalcReward(big.NewInt(1000), big.NewInt(500), 1)
	whole := CalcReward(big.NewInt(1000), big.NewInt(500), stakehive.SecondsPerYear)
	assert.Equal(t, int64(0), perSecond.Int64())
	assert.Equal(t, int64(50), whole.Int64())
}

func TestCalcRewardWideMagnitudes(t *testing.T) {
	// 10^27 principal over a decade must not overflow
	principal, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	elapsed := stakehive.SecondsPerYear * 10

	got := CalcReward(principal, big.NewInt(10_000), elapsed)

	// 100% per year for ten years
	expected := new(big.Int).Mul(principal, big.NewInt(10))
	assert.Equal(t, expected, got)
}

func TestSettleStampsClock(t *testing.T) {
	e := newTestEngine(t, nil)

	rec := newStakeRecord()
	accrued := e.settle(rec, 1000)
	assert.Equal(t, int64(0), accrued.Int64())
	assert.Equal(t, uint64(1000), rec.LastSettledAt)

	// zero principal accrues nothing, but the clock still advances
	accrued = e.settle(rec, 2000)
	assert.Equal(t, int64(0), accrued.Int64())
	assert.Equal(t, uint64(2000), rec.LastSettledAt)

	rec.Principal = big.NewInt(1_000_000)
	accrued = e.settle(rec, 2000+stakehive.SecondsPerYear)
	assert.Equal(t, int64(50_000), accrued.Int64())
	assert.Equal(t, int64(50_000), rec.AccruedReward.Int64())
}

func TestSettleClockNeverRewinds(t *testing.T) {
	e := newTestEngine(t, nil)

	rec := newStakeRecord()
	rec.Principal = big.NewInt(1_000_000)
	rec.LastSettledAt = 5000

	// now in the past: nothing accrues, clock keeps moving forward only
	accrued := e.settle(rec, 4000)
	assert.Equal(t, int64(0), accrued.Int64())
	assert.Equal(t, uint64(5000), rec.LastSettledAt)
}
