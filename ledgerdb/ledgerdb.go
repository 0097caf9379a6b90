// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledgerdb persists engine snapshots in a key-value store so a
// restarted process resumes accrual exactly where it left off.
package ledgerdb

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/kv"
	"github.com/stakehive/stakehive/staking"
)

var (
	metaKey         = []byte("m")
	recordKeyPrefix = []byte("r-")
)

// meta holds the engine-level scalars of a snapshot.
type meta struct {
	Rate               *big.Int
	LastDistributionAt uint64
}

// LedgerDB stores one engine snapshot. Records are keyed by their registry
// position so loading reproduces the registry's iteration order.
type LedgerDB struct {
	store kv.GetPutter
}

func New(store kv.GetPutter) *LedgerDB {
	return &LedgerDB{store: store}
}

func recordKey(pos uint32) []byte {
	key := make([]byte, 0, len(recordKeyPrefix)+4)
	key = append(key, recordKeyPrefix...)
	return binary.BigEndian.AppendUint32(key, pos)
}

// Save replaces the stored snapshot atomically (single batch write).
func (db *LedgerDB) Save(snap *staking.Snapshot) error {
	batch := db.store.NewBatch()

	// stale record slots beyond the new length must go
	it := db.store.NewIterator(kv.Range{From: recordKey(uint32(len(snap.Records)))})
	for it.Next() {
		key := make([]byte, len(it.Key()))
		copy(key, it.Key())
		if err := batch.Delete(key); err != nil {
			it.Release()
			return errors.Wrap(err, "delete stale record")
		}
	}
	it.Release()
	if err := it.Error(); err != nil {
		return errors.Wrap(err, "iterate stale records")
	}

	data, err := rlp.EncodeToBytes(&meta{
		Rate:               snap.Rate,
		LastDistributionAt: snap.LastDistributionAt,
	})
	if err != nil {
		return errors.Wrap(err, "encode meta")
	}
	if err := batch.Put(metaKey, data); err != nil {
		return err
	}

	for i := range snap.Records {
		data, err := rlp.EncodeToBytes(&snap.Records[i])
		if err != nil {
			return errors.Wrap(err, "encode record")
		}
		if err := batch.Put(recordKey(uint32(i)), data); err != nil {
			return err
		}
	}
	return batch.Write()
}

// Load reads back the stored snapshot. It returns nil when nothing has been
// saved yet.
func (db *LedgerDB) Load() (*staking.Snapshot, error) {
	data, err := db.store.Get(metaKey)
	if err != nil {
		if db.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get meta")
	}
	var m meta
	if err := rlp.DecodeBytes(data, &m); err != nil {
		return nil, errors.Wrap(err, "decode meta")
	}

	snap := &staking.Snapshot{
		Rate:               m.Rate,
		LastDistributionAt: m.LastDistributionAt,
	}

	it := db.store.NewIterator(kv.Range{From: recordKeyPrefix})
	defer it.Release()
	for it.Next() {
		var rec staking.SnapshotRecord
		if err := rlp.DecodeBytes(it.Value(), &rec); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate records")
	}
	return snap, nil
}
