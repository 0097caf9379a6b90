// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/stakehive/stakehive/ledgerdb"
	"github.com/stakehive/stakehive/staking"
)

// distributionPollInterval is how often the auto-distribution loop checks
// whether the cooldown has elapsed.
const distributionPollInterval = 10 * time.Second

type serviceOptions struct {
	AutoDistribute    bool
	DistributionBatch int
	SnapshotInterval  time.Duration
}

// service drives the engine's background loops: periodic ledger snapshots
// and, optionally, automatic distribution passes.
type service struct {
	engine   *staking.Engine
	ledgerDB *ledgerdb.LedgerDB
	clock    clockwork.Clock
	opts     serviceOptions
}

func newService(engine *staking.Engine, ledgerDB *ledgerdb.LedgerDB, clock clockwork.Clock, opts serviceOptions) *service {
	return &service{
		engine:   engine,
		ledgerDB: ledgerDB,
		clock:    clock,
		opts:     opts,
	}
}

// Run blocks until exit closes or a loop fails, shuts the API server down
// gracefully and persists a final snapshot.
func (s *service) Run(exit <-chan struct{}, serve func() error, shutdown func()) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(serve)
	group.Go(func() error {
		s.snapshotLoop(ctx)
		return nil
	})
	if s.opts.AutoDistribute {
		group.Go(func() error {
			s.distributionLoop(ctx)
			return nil
		})
	}
	group.Go(func() error {
		select {
		case <-exit:
		case <-ctx.Done():
		}
		cancel()
		shutdown()
		return nil
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if saveErr := s.saveSnapshot(); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

func (s *service) snapshotLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(s.opts.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := s.saveSnapshot(); err != nil {
				logger.Warn("failed to save ledger snapshot", "err", err)
			}
		}
	}
}

func (s *service) saveSnapshot() error {
	snap := s.engine.Snapshot()
	if err := s.ledgerDB.Save(snap); err != nil {
		return errors.WithMessage(err, "save ledger snapshot")
	}
	logger.Debug("ledger snapshot saved", "participants", len(snap.Records))
	return nil
}

func (s *service) distributionLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(distributionPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.runDistribution(ctx)
		}
	}
}

// runDistribution drains one distribution pass batch by batch, yielding to
// shutdown between batches.
func (s *service) runDistribution(ctx context.Context) {
	if s.engine.ParticipantCount() == 0 && !s.engine.DistributionInProgress() {
		return
	}
	for {
		res, err := s.engine.DistributeBatch(uint64(s.clock.Now().Unix()), s.opts.DistributionBatch)
		if err != nil {
			if !errors.Is(err, staking.ErrCooldownActive) {
				logger.Warn("distribution pass failed", "err", err)
			}
			return
		}
		if res.Done {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
