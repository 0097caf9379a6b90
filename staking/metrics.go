// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/stakehive/stakehive/metrics"

var (
	metricOpCount          = metrics.LazyLoadCounterVec("staking_op_count", []string{"op"})
	metricParticipantCount = metrics.LazyLoadGauge("staking_participant_count")
	metricDistributedTotal = metrics.LazyLoadCounter("staking_distributed_total")
)
