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
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tombee/jvmctl/internal/log"
)

// Slot states for the runner's single process slot. Teardown is guarded by
// the slotRunning -> slotShuttingDown transition: only the caller that wins
// that swap executes the teardown sequence.
const (
	slotEmpty int32 = iota
	slotRunning
	slotShuttingDown
)

// ExecOptions describes one JVM launch.
type ExecOptions struct {
	// JavaHome is the JVM installation root. Required.
	JavaHome string

	// VMOptions are passed to the JVM before the classpath.
	VMOptions []string

	// Classpath entries, joined with the platform path-list separator.
	// Empty entries are skipped.
	Classpath []string

	// MainClass is the fully qualified entry point.
	MainClass string

	// ProgramOptions are passed to the main class.
	ProgramOptions []string

	// WorkingDir is the child's working directory. Empty means inherit.
	WorkingDir string

	// Env holds "NAME=VALUE" overrides appended to the host environment.
	Env []string

	// Stdin, Stdout, Stderr are the parent-side stream endpoints bridged
	// to the child. Nil values default to the process's own stdio.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// child bundles one launched process with its reaper state. The reaper
// goroutine started at launch collects the exit status and closes exited,
// so every child is reaped exactly once and never left as a zombie, no
// matter which teardown trigger fires.
type child struct {
	cmd     *exec.Cmd
	exited  chan struct{}
	waitErr error // valid once exited is closed
}

// Runner launches and supervises at most one JVM child process at a time.
// It owns the process handle and the three pipe workers bridging the
// child's stdio, and guarantees the teardown sequence runs exactly once
// no matter which trigger (child exit, Shutdown call, host termination
// signal) fires first.
//
// Runner is safe for concurrent use. After Shutdown completes, the slot
// is released and a subsequent Exec is permitted.
type Runner struct {
	notifier ExitNotifier
	logger   *slog.Logger

	state atomic.Int32

	mu    sync.Mutex
	child *child
	pipes []*Pipe
	reg   Registration
}

// NewRunner creates a runner that registers teardown with the given
// notifier on every launch. A nil notifier defaults to SIGINT/SIGTERM
// signal handling; a nil logger discards debug output.
func NewRunner(notifier ExitNotifier, logger *slog.Logger) *Runner {
	if notifier == nil {
		notifier = NewSignalNotifier()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		notifier: notifier,
		logger:   logger,
	}
}

// Exec spawns the JVM described by opts and starts the stdio pipe workers.
//
// The command line is [java] + vmOptions + ["-cp", joined classpath] +
// mainClass + programOptions. Launch is all-or-nothing: on any failure no
// process or pipe worker is left behind and the slot stays free.
//
// Returns ErrJavaHomeNotSet if opts.JavaHome is empty, ErrAlreadyStarted
// if a process is still owned, and a *LaunchError wrapping the OS cause
// if the spawn itself fails.
func (r *Runner) Exec(opts ExecOptions) error {
	java, err := JavaExecutable(opts.JavaHome)
	if err != nil {
		return err
	}

	if !r.state.CompareAndSwap(slotEmpty, slotRunning) {
		return ErrAlreadyStarted
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tokens := new(CommandLine).
		Append(java).
		AppendAll(opts.VMOptions).
		Append("-cp").
		Append(JoinClasspath(opts.Classpath)).
		Append(opts.MainClass).
		AppendAll(opts.ProgramOptions).
		Tokens()

	cmd := exec.Command(tokens[0], tokens[1:]...)
	cmd.Env = MergeEnviron(opts.Env)
	cmd.Dir = opts.WorkingDir

	// Track pipes created so far for cleanup if a later step fails.
	var created []io.Closer
	fail := func(cause error) error {
		for _, c := range created {
			_ = c.Close()
		}
		r.state.Store(slotEmpty)
		return &LaunchError{Cause: cause}
	}

	childOut, err := cmd.StdoutPipe()
	if err != nil {
		return fail(err)
	}
	created = append(created, childOut)

	childErr, err := cmd.StderrPipe()
	if err != nil {
		return fail(err)
	}
	created = append(created, childErr)

	childIn, err := cmd.StdinPipe()
	if err != nil {
		return fail(err)
	}
	created = append(created, childIn)

	r.logger.Debug("starting process", "command", strings.Join(tokens, " "))

	if err := cmd.Start(); err != nil {
		return fail(err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	outPipe := StartPipe(childOut, stdout, "stdout", r.logger)
	errPipe := StartPipe(childErr, stderr, "stderr", r.logger)
	inPipe := StartPipe(stdin, childIn, "stdin", r.logger)

	// When the parent-side stdin source is exhausted, close the child's
	// stdin so it observes end-of-input.
	go func() {
		<-inPipe.Done()
		_ = childIn.Close()
	}()

	c := &child{cmd: cmd, exited: make(chan struct{})}

	// Reap on the child's own goroutine. The output workers are drained
	// first: reaping closes the parent-side pipe ends, which would discard
	// buffered output the workers have not forwarded yet. The workers see
	// EOF once the child exits and closes its ends.
	go func() {
		<-outPipe.Done()
		<-errPipe.Done()
		c.waitErr = cmd.Wait()
		close(c.exited)
	}()

	r.child = c
	r.pipes = []*Pipe{inPipe, outPipe, errPipe}
	r.reg = r.notifier.Register(r.Shutdown)

	r.logger.Debug("process started", log.PIDKey, cmd.Process.Pid)

	return nil
}

// Wait blocks until the child process has exited and been reaped, then
// runs the teardown sequence for that launch. The returned int is the
// child's exit code (-1 if it was killed by a signal). Teardown runs even
// when waiting itself fails, so waiting never leaves the process
// un-torn-down.
func (r *Runner) Wait() (int, error) {
	r.mu.Lock()
	c := r.child
	r.mu.Unlock()

	if c == nil {
		return 0, ErrNotStarted
	}

	r.logger.Debug("waiting for process exit", log.PIDKey, c.cmd.Process.Pid)

	<-c.exited
	r.shutdown(c)

	if c.waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(c.waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, c.waitErr
	}
	return 0, nil
}

// Shutdown tears down the owned process and its pipe workers. It is
// idempotent: concurrent and repeated calls collapse to a single
// execution, and calling it when nothing was launched is a no-op.
//
// Teardown order: release the exit-notifier registration, clear the
// process slot (a new Exec is permitted from that point on), stop the
// pipe workers, kill the OS process if still alive. Errors during
// teardown are suppressed; shutdown runs to completion on a best-effort
// basis and never propagates to an already-terminating host.
func (r *Runner) Shutdown() {
	r.shutdown(nil)
}

// shutdown runs the teardown sequence once. A non-nil owner restricts
// teardown to that specific launch: a caller returning from a wait on an
// earlier process must not tear down a successor launched in the
// meantime.
func (r *Runner) shutdown(owner *child) {
	if !r.state.CompareAndSwap(slotRunning, slotShuttingDown) {
		return
	}

	r.mu.Lock()
	if owner != nil && r.child != owner {
		r.mu.Unlock()
		r.state.Store(slotRunning)
		return
	}
	reg, c, pipes := r.reg, r.child, r.pipes
	r.reg, r.child, r.pipes = nil, nil, nil
	r.mu.Unlock()

	r.logger.Debug("shutdown in progress")

	if reg != nil {
		reg.Release()
	}

	// Release the slot before the process is actually killed, so a caller
	// observing "no process owned" can launch again immediately.
	r.state.Store(slotEmpty)

	for _, p := range pipes {
		p.Stop()
	}

	if c != nil {
		// The reaper goroutine started at launch collects the exit
		// status, so the kill leaves no zombie behind.
		_ = c.cmd.Process.Kill()
	}

	r.logger.Info("process has been shut down")
}

// Running reports whether a process is currently owned by the runner.
func (r *Runner) Running() bool {
	return r.state.Load() == slotRunning
}

// PID returns the owned process's PID, or 0 if no process is owned.
func (r *Runner) PID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.child == nil {
		return 0
	}
	return r.child.cmd.Process.Pid
}
