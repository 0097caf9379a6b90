// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakehive/stakehive/api"
	"github.com/stakehive/stakehive/api/subscriptions"
	"github.com/stakehive/stakehive/eventdb"
	"github.com/stakehive/stakehive/ledgerdb"
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/lvldb"
	"github.com/stakehive/stakehive/metrics"
	"github.com/stakehive/stakehive/staking"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeHive",
		Usage:     "staking accrual and distribution service",
		Copyright: "2025 The StakeHive developers",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			persistFlag,
			autoDistributeFlag,
			distributionBatchFlag,
			snapshotIntervalFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	config, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		srv, url, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		metricsURL = url
		defer func() { logger.Info("stopping metrics server..."); srv.Shutdown(context.Background()) }()
	}

	var (
		mainDB      *lvldb.LevelDB
		eventDB     *eventdb.EventDB
		instanceDir string
	)
	if ctx.BoolT(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(instanceDir); err != nil {
			return err
		}
		if eventDB, err = openEventDB(instanceDir); err != nil {
			return err
		}
	} else {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			return err
		}
	}
	defer func() { logger.Info("closing ledger database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	ledgerDB := ledgerdb.New(mainDB)
	snapshot, err := ledgerDB.Load()
	if err != nil {
		return err
	}

	subs := subscriptions.New()
	opts := staking.Options{
		Rate:                 big.NewInt(config.RewardRate),
		DistributionInterval: config.DistributionInterval,
		Sink:                 staking.MultiSink{eventDB.Sink(), subs},
	}

	var engine *staking.Engine
	if snapshot != nil {
		logger.Info("restoring ledger snapshot",
			"participants", len(snapshot.Records), "lastDistribution", snapshot.LastDistributionAt)
		engine, err = staking.NewEngineFromSnapshot(snapshot, opts)
	} else {
		engine, err = staking.NewEngine(opts)
	}
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	handler, closeSubs := api.New(engine, eventDB, subs, clock, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	listener, apiURL, err := startListener(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	apiSrv := &http.Server{Handler: handler}

	printStartupMessage(instanceDir, apiURL, metricsURL, engine.ParticipantCount())

	svc := newService(engine, ledgerDB, clock, serviceOptions{
		AutoDistribute:    ctx.Bool(autoDistributeFlag.Name),
		DistributionBatch: batchLimit(ctx, config),
		SnapshotInterval:  time.Duration(ctx.Uint64(snapshotIntervalFlag.Name)) * time.Second,
	})

	serve := func() error {
		if err := apiSrv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	}
	stop := func() {
		logger.Info("stopping API server...")
		apiSrv.Shutdown(context.Background())
	}
	return svc.Run(handleExitSignal(), serve, stop)
}

func batchLimit(ctx *cli.Context, config Config) int {
	if limit := ctx.Int(distributionBatchFlag.Name); limit > 0 {
		return limit
	}
	return config.DistributionBatchLimit
}
