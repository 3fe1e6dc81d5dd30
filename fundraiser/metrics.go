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

package fundraiser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type programMetrics struct {
	fundraisersStarted prometheus.Counter
	donations          prometheus.Counter
	donatedAmount      prometheus.Counter
	targetsReached     prometheus.Counter
	withdrawals        prometheus.Counter
	withdrawnAmount    prometheus.Counter
	walletsClosed      prometheus.Counter
	reconcileFailures  prometheus.Counter
	operationErrors    *prometheus.CounterVec
}

func (m *programMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.fundraisersStarted = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_fundraisers_started_total",
		Help: "number of fundraisers created",
	})
	m.donations = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_donations_total",
		Help: "number of committed donations",
	})
	m.donatedAmount = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_donated_amount_total",
		Help: "token amount received by custodial wallets",
	})
	m.targetsReached = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_targets_reached_total",
		Help: "number of fundraisers closed by reaching their target",
	})
	m.withdrawals = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_withdrawals_total",
		Help: "number of committed withdrawals",
	})
	m.withdrawnAmount = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_withdrawn_amount_total",
		Help: "token amount moved out of custodial wallets",
	})
	m.walletsClosed = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_wallets_closed_total",
		Help: "number of custodial wallets closed after withdrawal",
	})
	m.reconcileFailures = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_reconcile_failures_total",
		Help: "number of balance reconciliation failures",
	})
	m.operationErrors = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crowdfund_operation_errors_total",
			Help: "number of failed operations by operation name",
		},
		[]string{"operation"},
	)
}
