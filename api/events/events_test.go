// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/eventdb"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

const queryLimit = 5

func newTestServer(t *testing.T) (*httptest.Server, *eventdb.EventDB) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := mux.NewRouter()
	New(db, queryLimit).Mount(router, "/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, db
}

func filterEvents(t *testing.T, ts *httptest.Server, filter *eventdb.Filter) (int, []*eventdb.Event) {
	data, err := json.Marshal(filter)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return res.StatusCode, nil
	}
	var found []*eventdb.Event
	require.NoError(t, json.Unmarshal(body, &found))
	return res.StatusCode, found
}

func TestFilterEvents(t *testing.T) {
	ts, db := newTestServer(t)

	alice := stakehive.MustParseAddress("0x0101010101010101010101010101010101010101")
	for i := range 10 {
		require.NoError(t, db.Write(&staking.Deposited{
			Participant: alice,
			Amount:      big.NewInt(int64(i + 1)),
			At:          uint64(1000 + i),
		}))
	}

	// default pagination caps at the server limit
	status, found := filterEvents(t, ts, &eventdb.Filter{})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, found, queryLimit)

	// explicit limit above the cap is rejected
	status, _ = filterEvents(t, ts, &eventdb.Filter{
		Options: &eventdb.Options{Limit: queryLimit + 1},
	})
	assert.Equal(t, http.StatusForbidden, status)

	// time range + descending order
	status, found = filterEvents(t, ts, &eventdb.Filter{
		Range:   &eventdb.TimeRange{From: 1002, To: 1004},
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Limit: queryLimit},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, found, 3)
	assert.Equal(t, uint64(1004), found[0].Time)
	assert.Equal(t, uint64(1002), found[2].Time)
}

func TestFilterRejectsUnknownFields(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Post(ts.URL+"/events", "application/json",
		bytes.NewReader([]byte(`{"bogus": true}`)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
