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
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blinklabs-io/crowdfund/address"
)

// maxLineSize bounds a single instruction line. The largest instruction is
// start_fundraiser with a full description
const maxLineSize = 64 * 1024

var ErrMalformedLine = errors.New("malformed instruction line")

// ProcessStream reads one instruction per line from r, in the form
// "<signer> <hex instruction>", and runs each in order. The outcome of each
// line is written to w. Failed instructions don't stop processing. Blank
// lines and lines starting with '#' are skipped. Cancelling ctx stops
// processing even while a read from r is pending
func (n *Node) ProcessStream(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
) (processed int, failed int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	lines, scanErr, stop := scanLines(r)
	defer stop()
	lineNum := 0
	for {
		var text string
		var ok bool
		select {
		case <-ctx.Done():
			return processed, failed, ctx.Err()
		case text, ok = <-lines:
		}
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return processed, failed, err
		}
		lineNum++
		line := strings.TrimSpace(text)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		processed++
		result := "ok"
		if err := n.processLine(ctx, line); err != nil {
			failed++
			result = "error: " + err.Error()
			n.logger.Debug(
				"instruction failed",
				"component", "node",
				"line", lineNum,
				"error", err,
			)
		}
		if _, err := fmt.Fprintf(w, "%d %s\n", lineNum, result); err != nil {
			return processed, failed, err
		}
	}
	if err := <-scanErr; err != nil {
		return processed, failed, fmt.Errorf("read instructions: %w", err)
	}
	return processed, failed, nil
}

// scanLines reads lines from r on its own goroutine. The lines channel is
// closed at EOF or on a read error, after the error (possibly nil) has been
// sent on the error channel. Calling stop releases the goroutine at its next
// line, but a read already blocked on r only returns when r does
func scanLines(r io.Reader) (<-chan string, <-chan error, func()) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	return lines, scanErr, func() { close(done) }
}

func (n *Node) processLine(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedLine, len(fields))
	}
	signer, err := address.ParseIdentity(fields[0])
	if err != nil {
		return fmt.Errorf("signer: %w", err)
	}
	data, err := hex.DecodeString(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return n.program.Process(ctx, signer, data)
}
