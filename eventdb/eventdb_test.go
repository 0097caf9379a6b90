// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

func newTestDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteAndFilterAll(t *testing.T) {
	db := newTestDB(t)
	p := stakehive.BytesToAddress([]byte("p"))

	require.NoError(t, db.Write(&staking.Deposited{At: 100, Participant: p, Amount: big.NewInt(1_000_000)}))
	require.NoError(t, db.Write(&staking.RewardsDistributed{At: 200, Total: big.NewInt(50_000), Settled: 3}))
	require.NoError(t, db.Write(&staking.Withdrawn{At: 300, Participant: p, Principal: big.NewInt(1_000_000), Reward: big.NewInt(50_000)}))
	require.NoError(t, db.Write(&staking.RateUpdated{At: 400, OldRate: big.NewInt(500), NewRate: big.NewInt(750)}))

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, uint64(1), events[0].Sequence)
	assert.Equal(t, staking.EventNameDeposited, events[0].Name)
	assert.Equal(t, stakehive.Blake2b([]byte(staking.EventNameDeposited)), events[0].Topic)
	require.NotNil(t, events[0].Participant)
	assert.Equal(t, p, *events[0].Participant)
	assert.Equal(t, big.NewInt(1_000_000), events[0].Amount)
	assert.Nil(t, events[0].Aux)

	assert.Nil(t, events[1].Participant)
	assert.Equal(t, big.NewInt(50_000), events[1].Amount)
	assert.Equal(t, big.NewInt(3), events[1].Aux)

	assert.Equal(t, big.NewInt(50_000), events[2].Aux)

	assert.Equal(t, big.NewInt(750), events[3].Amount)
	assert.Equal(t, big.NewInt(500), events[3].Aux)
}

func TestFilterCriteria(t *testing.T) {
	db := newTestDB(t)
	a := stakehive.BytesToAddress([]byte("a"))
	b := stakehive.BytesToAddress([]byte("b"))

	require.NoError(t, db.Write(&staking.Deposited{At: 100, Participant: a, Amount: big.NewInt(1)}))
	require.NoError(t, db.Write(&staking.Deposited{At: 200, Participant: b, Amount: big.NewInt(2)}))
	require.NoError(t, db.Write(&staking.Withdrawn{At: 300, Participant: a, Principal: big.NewInt(1), Reward: new(big.Int)}))

	ctx := context.Background()

	byName, err := db.Filter(ctx, &Filter{Name: staking.EventNameDeposited})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byParticipant, err := db.Filter(ctx, &Filter{Participant: &a})
	require.NoError(t, err)
	assert.Len(t, byParticipant, 2)

	both, err := db.Filter(ctx, &Filter{Name: staking.EventNameWithdrawn, Participant: &a})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, uint64(300), both[0].Time)

	ranged, err := db.Filter(ctx, &Filter{Range: &TimeRange{From: 150, To: 250}})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, uint64(200), ranged[0].Time)
}

func TestFilterOrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	p := stakehive.BytesToAddress([]byte("p"))

	for i := 1; i <= 5; i++ {
		require.NoError(t, db.Write(&staking.Deposited{At: uint64(i * 100), Participant: p, Amount: big.NewInt(int64(i))}))
	}

	ctx := context.Background()

	desc, err := db.Filter(ctx, &Filter{Order: DESC})
	require.NoError(t, err)
	require.Len(t, desc, 5)
	assert.Equal(t, uint64(500), desc[0].Time)

	page, err := db.Filter(ctx, &Filter{Options: &Options{Offset: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(200), page[0].Time)
	assert.Equal(t, uint64(300), page[1].Time)
}

func TestSinkPersists(t *testing.T) {
	db := newTestDB(t)
	p := stakehive.BytesToAddress([]byte("p"))

	engine, err := staking.NewEngine(staking.Options{
		Rate:                 big.NewInt(500),
		DistributionInterval: 1000,
		Sink:                 db.Sink(),
	})
	require.NoError(t, err)

	require.NoError(t, engine.Deposit(p, big.NewInt(1000), 10))
	_, err = engine.Withdraw(p, 20)
	require.NoError(t, err)

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, staking.EventNameDeposited, events[0].Name)
	assert.Equal(t, staking.EventNameWithdrawn, events[1].Name)
}

func TestWideAmountRoundTrip(t *testing.T) {
	db := newTestDB(t)
	p := stakehive.BytesToAddress([]byte("p"))

	huge, _ := new(big.Int).SetString("123456789012345678901234567890123456789", 10)
	require.NoError(t, db.Write(&staking.Deposited{At: 1, Participant: p, Amount: huge}))

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, huge, events[0].Amount)
}
