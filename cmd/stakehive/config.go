// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakehive/stakehive/stakehive"
)

// Config carries tunables that have no sensible command line shape.
// Zero-valued fields keep their built-in defaults.
type Config struct {
	// RewardRate is the annual reward rate in basis points.
	RewardRate int64 `yaml:"rewardRate"`
	// DistributionInterval is the distribution cooldown. (unit: second)
	DistributionInterval uint64 `yaml:"distributionInterval"`
	// DistributionBatchLimit caps records settled per distribution batch.
	DistributionBatchLimit int `yaml:"distributionBatchLimit"`
}

func defaultConfig() Config {
	return Config{
		RewardRate:             stakehive.InitialRewardRate.Int64(),
		DistributionInterval:   stakehive.DefaultDistributionInterval,
		DistributionBatchLimit: stakehive.DefaultDistributionBatchLimit,
	}
}

func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.WithMessage(err, "read config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.WithMessage(err, "parse config")
	}
	if config.RewardRate < 0 {
		return config, errors.New("config: rewardRate must not be negative")
	}
	if config.DistributionBatchLimit < 0 {
		return config, errors.New("config: distributionBatchLimit must not be negative")
	}
	return config, nil
}
