// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

var alice = stakehive.MustParseAddress("0x0123456789012345678901234567890123456789")

func newTestServer(t *testing.T) (*httptest.Server, *staking.Engine, *clockwork.FakeClock) {
	engine, err := staking.NewEngine(staking.Options{
		Rate:                 big.NewInt(500),
		DistributionInterval: 1000,
	})
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Unix(10_000, 0))
	router := mux.NewRouter()
	New(engine, clock).Mount(router, "/")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, engine, clock
}

func httpDo(t *testing.T, method, url string, body any) (int, []byte) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestDepositAndGetStake(t *testing.T) {
	ts, _, clock := newTestServer(t)

	status, body := httpDo(t, http.MethodPost,
		ts.URL+"/stakes/"+alice.String()+"/deposits",
		&DepositRequest{Amount: amount(big.NewInt(1_000_000))})
	require.Equal(t, http.StatusOK, status, string(body))

	var stake StakeResponse
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.Equal(t, alice, stake.Participant)
	assert.Equal(t, big.NewInt(1_000_000), stake.Principal.Int())
	assert.Equal(t, uint64(10_000), stake.LastSettledAt)

	// a year later the pending reward shows up without any mutation
	clock.Advance(time.Duration(stakehive.SecondsPerYear) * time.Second)
	status, body = httpDo(t, http.MethodGet, ts.URL+"/stakes/"+alice.String(), nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.Equal(t, big.NewInt(50_000), stake.PendingReward.Int())
	assert.Equal(t, big.NewInt(0).String(), stake.AccruedReward.Int().String())
}

func TestDepositRejectsBadInput(t *testing.T) {
	ts, _, _ := newTestServer(t)

	status, body := httpDo(t, http.MethodPost,
		ts.URL+"/stakes/not-an-address/deposits",
		&DepositRequest{Amount: amount(big.NewInt(1))})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = httpDo(t, http.MethodPost,
		ts.URL+"/stakes/"+alice.String()+"/deposits",
		&DepositRequest{Amount: amount(big.NewInt(0))})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, _ = httpDo(t, http.MethodPost,
		ts.URL+"/stakes/"+alice.String()+"/deposits",
		map[string]string{"amount": "1", "bogus": "field"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWithdraw(t *testing.T) {
	ts, engine, clock := newTestServer(t)

	require.NoError(t, engine.Deposit(alice, big.NewInt(1_000_000), 10_000))
	clock.Advance(time.Duration(stakehive.SecondsPerYear) * time.Second)

	status, body := httpDo(t, http.MethodPost,
		ts.URL+"/stakes/"+alice.String()+"/withdrawals", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var payout WithdrawalResponse
	require.NoError(t, json.Unmarshal(body, &payout))
	assert.Equal(t, big.NewInt(1_000_000), payout.Principal.Int())
	assert.Equal(t, big.NewInt(50_000), payout.Reward.Int())

	// second withdrawal has nothing to pay
	status, _ = httpDo(t, http.MethodPost,
		ts.URL+"/stakes/"+alice.String()+"/withdrawals", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestParticipants(t *testing.T) {
	ts, engine, _ := newTestServer(t)

	for i := range 3 {
		addr := stakehive.MustParseAddress(fmt.Sprintf("0x%040d", i+1))
		require.NoError(t, engine.Deposit(addr, big.NewInt(100), 10_000))
	}
	status, body := httpDo(t, http.MethodGet, ts.URL+"/participants", nil)
	require.Equal(t, http.StatusOK, status)

	var res ParticipantsResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 3, res.Count)
}

func TestDistributions(t *testing.T) {
	ts, engine, clock := newTestServer(t)

	require.NoError(t, engine.Deposit(alice, big.NewInt(1_000_000), 10_000))
	clock.Advance(time.Duration(stakehive.SecondsPerYear) * time.Second)

	status, body := httpDo(t, http.MethodPost, ts.URL+"/distributions", &DistributeRequest{})
	require.Equal(t, http.StatusOK, status, string(body))

	var res DistributionResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, big.NewInt(50_000), res.Distributed.Int())
	assert.Equal(t, 1, res.Settled)
	assert.True(t, res.Done)

	// cooldown now active
	status, _ = httpDo(t, http.MethodPost, ts.URL+"/distributions", &DistributeRequest{})
	assert.Equal(t, http.StatusConflict, status)

	status, body = httpDo(t, http.MethodGet, ts.URL+"/distributions", nil)
	require.Equal(t, http.StatusOK, status)
	var st DistributionStatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, uint64(10_000+stakehive.SecondsPerYear), st.LastDistributionAt)
	assert.Equal(t, uint64(1000), st.Interval)
	assert.False(t, st.InProgress)
}

func TestRate(t *testing.T) {
	ts, engine, _ := newTestServer(t)

	status, body := httpDo(t, http.MethodGet, ts.URL+"/rate", nil)
	require.Equal(t, http.StatusOK, status)
	var res RateResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, big.NewInt(500), res.Rate.Int())

	status, body = httpDo(t, http.MethodPut, ts.URL+"/rate",
		&RateRequest{Rate: amount(big.NewInt(750))})
	require.Equal(t, http.StatusOK, status, string(body))
	var upd RateUpdateResponse
	require.NoError(t, json.Unmarshal(body, &upd))
	assert.Equal(t, big.NewInt(500), upd.OldRate.Int())
	assert.Equal(t, big.NewInt(750), upd.Rate.Int())
	assert.Equal(t, big.NewInt(750), engine.Rate())

	status, _ = httpDo(t, http.MethodPut, ts.URL+"/rate",
		&RateRequest{Rate: amount(big.NewInt(-1))})
	assert.Equal(t, http.StatusBadRequest, status)
}
