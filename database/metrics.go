// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type databaseMetrics struct {
	commits      prometheus.Counter
	rollbacks    prometheus.Counter
	execDuration *prometheus.HistogramVec
}

func (m *databaseMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.commits = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "crowdfund_database_commits_total",
			Help: "read-write transactions committed to both stores",
		},
	)
	m.rollbacks = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "crowdfund_database_rollbacks_total",
			Help: "read-write transactions rolled back",
		},
	)
	m.execDuration = promautoFactory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crowdfund_database_execute_duration_seconds",
			Help:    "time spent running an operation, including lock wait",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"mode"},
	)
}

// The helpers below tolerate a nil receiver so a Database opened without a
// registry skips instrumentation

func (m *databaseMetrics) commit() {
	if m == nil {
		return
	}
	m.commits.Inc()
}

func (m *databaseMetrics) rollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

func (m *databaseMetrics) observeExec(readWrite bool, start time.Time) {
	if m == nil {
		return
	}
	mode := "read"
	if readWrite {
		mode = "write"
	}
	m.execDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
