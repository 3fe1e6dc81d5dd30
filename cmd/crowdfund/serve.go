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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/blinklabs-io/crowdfund/internal/config"
	"github.com/blinklabs-io/crowdfund/internal/node"
)

const shutdownTimeout = 30 * time.Second

func serveRun(cmd *cobra.Command, args []string, cfg *config.Config) error {
	logger := commonRun()

	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	signalCtx, signalCtxStop := signal.NotifyContext(
		cmd.Context(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	n, err := node.Open(
		signalCtx,
		cfg,
		logger,
		node.WithPromRegistry(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return err
	}
	defer n.Close()

	if cfg.MetricsPort > 0 {
		metricsServer, err := node.StartMetricsServer(
			fmt.Sprintf(":%d", cfg.MetricsPort),
			prometheus.DefaultGatherer,
			logger,
		)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				shutdownTimeout,
			)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	processed, failed, err := n.ProcessStream(signalCtx, input, cmd.OutOrStdout())
	logger.Info(
		"instruction stream finished",
		"component", programName,
		"processed", processed,
		"failed", failed,
	)
	if err != nil && signalCtx.Err() != nil {
		logger.Info("signal received, shutting down")
		return nil
	}
	return err
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Process a stream of encoded instructions",
		Long: "Process instructions read from file, or stdin when no file or '-' is given.\n" +
			"Each line holds a signer identity and a hex encoded instruction, as printed\n" +
			"by the --print flag of start, donate and withdraw. The outcome of every\n" +
			"line is written to stdout.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errNoConfig
			}
			return serveRun(cmd, args, cfg)
		},
	}
	return cmd
}
