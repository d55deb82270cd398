// Copyright 2025 Tom Barlow
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

package launch

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/tombee/jvmctl/internal/log"
)

// pipeBufferSize is the chunk size for stdio forwarding.
const pipeBufferSize = 32 * 1024

// Pipe copies bytes from a source stream to a sink on its own goroutine
// until the source is exhausted or Stop is called.
//
// Forwarding is best-effort: a read or write error ends the loop silently
// and is logged at debug level only. Errors are never escalated to the
// caller; stdio forwarding is diagnostic, not a transport with delivery
// guarantees.
type Pipe struct {
	label  string
	src    io.Reader
	dst    io.Writer
	logger *slog.Logger

	running atomic.Bool
	done    chan struct{}
}

// StartPipe begins forwarding src to dst on a new goroutine. The label
// identifies the pipe in debug logs.
func StartPipe(src io.Reader, dst io.Writer, label string, logger *slog.Logger) *Pipe {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pipe{
		label:  label,
		src:    src,
		dst:    dst,
		logger: logger,
		done:   make(chan struct{}),
	}
	p.running.Store(true)

	go p.copyLoop()

	return p
}

// Stop asks the copy loop to exit. It is idempotent and fire-and-forget:
// it does not wait for the goroutine to finish, does not flush in-flight
// chunks, and never errors even if the underlying streams are already
// closed. A loop blocked in a read exits once the stream closes underneath
// it.
func (p *Pipe) Stop() {
	p.running.Store(false)
}

// Running reports whether the pipe has neither been stopped nor finished.
func (p *Pipe) Running() bool {
	select {
	case <-p.done:
		return false
	default:
	}
	return p.running.Load()
}

// Done returns a channel closed when the copy loop has exited.
func (p *Pipe) Done() <-chan struct{} {
	return p.done
}

func (p *Pipe) copyLoop() {
	defer close(p.done)

	buf := make([]byte, pipeBufferSize)
	for p.running.Load() {
		n, err := p.src.Read(buf)
		if n > 0 {
			if _, werr := p.dst.Write(buf[:n]); werr != nil {
				p.logger.Debug("pipe write failed", log.PipeKey, p.label, "error", werr)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				p.logger.Debug("pipe read failed", log.PipeKey, p.label, "error", err)
			}
			return
		}
	}
}
