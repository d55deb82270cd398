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

package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

var (
	// ErrProcessNotRunning is returned when the process does not exist.
	ErrProcessNotRunning = errors.New("process not running")

	// ErrNotJavaProcess is returned when the process is not a JVM.
	ErrNotJavaProcess = errors.New("process is not a java process")

	// ErrStopTimeout is returned when the process doesn't exit within the timeout.
	ErrStopTimeout = errors.New("stop timeout exceeded")
)

// IsProcessRunning checks if a process with the given PID exists.
func IsProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds; signal 0 probes for existence
	// without delivering anything.
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}

// IsJavaProcess checks if the given PID is a JVM process. This prevents
// sending signals to unrelated processes if the PID file is stale.
func IsJavaProcess(pid int) bool {
	return isJavaProcess(pid)
}

// SendSignal sends a signal to the given process.
func SendSignal(pid int, sig syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("failed to send signal %v to process %d: %w", sig, pid, err)
	}

	return nil
}

// PollUntilExit waits for the process to exit, checking every 100ms.
// Returns ErrStopTimeout if the process is still running after timeout.
func PollUntilExit(pid int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	interval := 100 * time.Millisecond

	for time.Now().Before(deadline) {
		if !IsProcessRunning(pid) {
			return nil
		}
		time.Sleep(interval)
	}

	return ErrStopTimeout
}

// GracefulStop sends SIGTERM to a process and waits for it to exit.
// If force is true and the timeout is exceeded, sends SIGKILL.
func GracefulStop(pid int, timeout time.Duration, force bool) error {
	if !IsProcessRunning(pid) {
		return ErrProcessNotRunning
	}

	if err := SendSignal(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	err := PollUntilExit(pid, timeout)
	if err == nil {
		return nil
	}

	if !force {
		return err
	}

	if err := SendSignal(pid, syscall.SIGKILL); err != nil {
		return fmt.Errorf("failed to send SIGKILL: %w", err)
	}

	if err := PollUntilExit(pid, 5*time.Second); err != nil {
		return fmt.Errorf("process did not die after SIGKILL: %w", err)
	}

	return nil
}

// ProcessCommand returns the command line of the process, or "<unknown>"
// if it cannot be read.
func ProcessCommand(pid int) string {
	cmd, err := processCommand(pid)
	if err != nil {
		return "<unknown>"
	}
	return cmd
}
