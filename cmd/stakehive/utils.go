// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakehive/stakehive/eventdb"
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/lvldb"
	"github.com/stakehive/stakehive/metrics"
)

func initLogger(ctx *cli.Context) {
	level := log.LevelFromVerbosity(ctx.Int(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stderr, level)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandler(os.Stderr, level, useColor)
	}
	log.SetRoot(slog.New(handler))
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "io.stakehive")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "StakeHive")
	default:
		return filepath.Join(home, ".stakehive")
	}
}

func makeInstanceDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.WithMessagef(err, "create data dir at '%v'", dataDir)
	}
	return dataDir, nil
}

func openMainDB(instanceDir string) (*lvldb.LevelDB, error) {
	dir := filepath.Join(instanceDir, "ledger.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		return nil, errors.WithMessagef(err, "open ledger database at '%v'", dir)
	}
	return db, nil
}

func openEventDB(instanceDir string) (*eventdb.EventDB, error) {
	path := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "open event database at '%v'", path)
	}
	return db, nil
}

// handleExitSignal returns a channel closed on SIGINT or SIGTERM.
func handleExitSignal() <-chan struct{} {
	exit := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("exit signal received, shutting down...")
		close(exit)
	}()
	return exit
}

// startListener binds addr and returns the listener with its resolved URL.
func startListener(addr string) (net.Listener, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.WithMessagef(err, "listen API addr '%v'", addr)
	}
	url := "http://" + listener.Addr().String() + "/"
	return listener, url, nil
}

func startMetricsServer(addr string) (*http.Server, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.WithMessagef(err, "listen metrics addr '%v'", addr)
	}
	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: router}
	go func() {
		srv.Serve(listener)
	}()
	return srv, "http://" + listener.Addr().String() + "/metrics", nil
}

func printStartupMessage(instanceDir, apiURL, metricsURL string, participants int) {
	fmt.Printf(`Starting %v
    Instance dir    [ %v ]
    Participants    [ %v ]
    API portal      [ %v ]`,
		fullVersion(),
		instanceDir,
		participants,
		apiURL,
	)
	if metricsURL != "" {
		fmt.Printf(`
    Metrics         [ %v ]`,
			metricsURL,
		)
	}
	fmt.Println()
}
