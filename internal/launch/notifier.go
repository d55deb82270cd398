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
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Registration is a handle to a callback registered with an ExitNotifier.
type Registration interface {
	// Release deregisters the callback. Safe to call more than once and
	// after the callback has already fired.
	Release()
}

// ExitNotifier delivers host-termination notifications. The Runner
// registers its teardown here so the child process is cleaned up even
// when the host is killed externally. Tests substitute a fake notifier
// and fire it manually.
type ExitNotifier interface {
	// Register arranges for fn to be invoked when the host is asked to
	// terminate. fn runs on the notifier's own goroutine.
	Register(fn func()) Registration
}

// SignalNotifier implements ExitNotifier over os/signal. Each
// registration gets its own signal channel and watcher goroutine.
type SignalNotifier struct {
	signals []os.Signal
}

// NewSignalNotifier creates a notifier for the given signals,
// defaulting to SIGINT and SIGTERM.
func NewSignalNotifier(signals ...os.Signal) *SignalNotifier {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	return &SignalNotifier{signals: signals}
}

// Register implements ExitNotifier.
func (n *SignalNotifier) Register(fn func()) Registration {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, n.signals...)

	reg := &signalRegistration{
		ch:   ch,
		stop: make(chan struct{}),
	}

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ch:
			fn()
		case <-reg.stop:
		}
	}()

	return reg
}

type signalRegistration struct {
	ch   chan os.Signal
	stop chan struct{}
	once sync.Once
}

func (r *signalRegistration) Release() {
	r.once.Do(func() {
		close(r.stop)
	})
}
