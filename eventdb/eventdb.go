// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb stores the engine's emitted events in sqlite and serves
// filtered queries over them.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

var logger = log.WithContext("pkg", "eventdb")

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Write appends one engine event.
func (db *EventDB) Write(ev staking.Event) error {
	stored, err := convertEvent(ev)
	if err != nil {
		return err
	}

	var participant []byte
	if stored.Participant != nil {
		participant = stored.Participant.Bytes()
	}
	_, err = db.db.Exec(
		"INSERT INTO event(eventTime, name, topic, participant, amount, aux) VALUES(?,?,?,?,?,?)",
		stored.Time,
		stored.Name,
		stored.Topic.Bytes(),
		participant,
		encodeAmount(stored.Amount),
		encodeAmount(stored.Aux),
	)
	return errors.Wrap(err, "insert event")
}

// Sink returns a staking.EventSink persisting every published event.
// Storage failures are logged, not propagated: event history is a record of
// the accounting, never a gate on it.
func (db *EventDB) Sink() staking.EventSink {
	return &sink{db}
}

type sink struct {
	db *EventDB
}

func (s *sink) Publish(ev staking.Event) {
	if err := s.db.Write(ev); err != nil {
		logger.Error("failed to persist event", "name", ev.Name(), "err", err)
	}
}

// Filter queries stored events. A nil filter returns everything in
// ascending order.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}
	if filter.Participant != nil {
		args = append(args, filter.Participant.Bytes())
		stmt += " AND participant = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND eventTime >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND eventTime <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	events := make([]*Event, 0, 16)
	for rows.Next() {
		var (
			ev          Event
			topic       []byte
			participant []byte
			amount      []byte
			aux         []byte
		)
		if err := rows.Scan(
			&ev.Sequence,
			&ev.Time,
			&ev.Name,
			&topic,
			&participant,
			&amount,
			&aux,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev.Topic = stakehive.BytesToBytes32(topic)
		if len(participant) > 0 {
			addr := stakehive.BytesToAddress(participant)
			ev.Participant = &addr
		}
		ev.Amount = decodeAmount(amount)
		if len(aux) > 0 {
			ev.Aux = decodeAmount(aux)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// encodeAmount renders a non-negative integer as a fixed 32-byte blob, so
// amounts compare and store uniformly. Nil stays NULL.
func encodeAmount(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		// amounts are bounded well below 2^256; clamp rather than corrupt
		u = &uint256.Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	}
	b32 := u.Bytes32()
	return b32[:]
}

func decodeAmount(b []byte) *big.Int {
	return new(uint256.Int).SetBytes(b).ToBig()
}
