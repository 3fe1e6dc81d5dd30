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

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes a prometheus registry over HTTP
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
	done     chan struct{}
}

// StartMetricsServer serves gatherer on addr at /metrics until Shutdown
func StartMetricsServer(
	addr string,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	m := &MetricsServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		listener: listener,
		logger:   logger,
		done:     make(chan struct{}),
	}
	logger.Info(
		"serving prometheus metrics on "+listener.Addr().String(),
		"component", "node",
	)
	go func() {
		defer close(m.done)
		if err := m.server.Serve(listener); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Error(
				fmt.Sprintf("metrics listener failed: %s", err),
				"component", "node",
			)
		}
	}()
	return m, nil
}

// Addr returns the address the server is listening on
func (m *MetricsServer) Addr() string {
	return m.listener.Addr().String()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	err := m.server.Shutdown(ctx)
	<-m.done
	return err
}
