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

// Package stop implements `jvmctl stop` for JVMs launched with --no-wait.
package stop

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/jvmctl/internal/commands/shared"
	"github.com/tombee/jvmctl/internal/config"
	"github.com/tombee/jvmctl/internal/lifecycle"
)

type stopOptions struct {
	pidFile string
	timeout time.Duration
	force   bool
}

// NewStopCommand creates the stop command
func NewStopCommand() *cobra.Command {
	opts := &stopOptions{}

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a JVM launched with --no-wait",
		Long: `Stop the JVM recorded in the PID file.

Sends SIGTERM and waits up to the configured timeout for the process to
exit. With --force, a process that outlives the timeout is killed with
SIGKILL. The PID is validated to belong to a JVM before any signal is
sent, so a stale PID file never kills an unrelated process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pidFile, "pid-file", "", "PID file recorded at launch (default: config pid_file)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "How long to wait after SIGTERM (default: config stop_timeout)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "SIGKILL the process if it outlives the timeout")

	return cmd
}

func runStop(cmd *cobra.Command, opts *stopOptions) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewConfigError("failed to load configuration", err)
	}

	pidFile := opts.pidFile
	if pidFile == "" {
		pidFile = cfg.PIDFile
	}
	if pidFile == "" {
		return shared.NewConfigError("no PID file configured (use --pid-file or config pid_file)", nil)
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = cfg.StopTimeout
	}

	var rec *lifecycle.Recorder
	if cfg.LifecycleLog != "" {
		rec = lifecycle.NewRecorder(cfg.LifecycleLog)
	}

	pm := lifecycle.NewPIDFileManager(pidFile)

	pid, err := pm.Read()
	if err != nil {
		if os.IsNotExist(err) {
			cmd.Println("Not running (no PID file)")
			return nil
		}
		return shared.NewConfigError("failed to read PID file", err)
	}

	if !lifecycle.IsProcessRunning(pid) {
		if rec != nil {
			_ = rec.RecordStalePID(pid, "process no longer running")
		}
		_ = pm.Remove()
		cmd.Printf("Not running (removed stale PID file for %d)\n", pid)
		return nil
	}

	// Refuse to signal a reused PID that now belongs to something else.
	if !lifecycle.IsJavaProcess(pid) {
		if rec != nil {
			_ = rec.RecordStalePID(pid, fmt.Sprintf("PID reused by %q", lifecycle.ProcessCommand(pid)))
		}
		_ = pm.Remove()
		return &shared.ExitError{
			Code:    shared.ExitExecutionError,
			Message: fmt.Sprintf("PID %d is not a JVM (now %q); removed stale PID file", pid, lifecycle.ProcessCommand(pid)),
			Cause:   lifecycle.ErrNotJavaProcess,
		}
	}

	if rec != nil {
		_ = rec.RecordStop(pid, opts.force)
	}

	if err := lifecycle.GracefulStop(pid, timeout, opts.force); err != nil {
		if rec != nil {
			_ = rec.RecordStopFailure(pid, err)
		}
		if errors.Is(err, lifecycle.ErrStopTimeout) {
			return &shared.ExitError{
				Code:    shared.ExitExecutionError,
				Message: fmt.Sprintf("JVM %d did not exit within %v (retry with --force)", pid, timeout),
				Cause:   err,
			}
		}
		return &shared.ExitError{
			Code:    shared.ExitExecutionError,
			Message: fmt.Sprintf("failed to stop JVM %d", pid),
			Cause:   err,
		}
	}

	_ = pm.Remove()
	cmd.Printf("Stopped JVM %d\n", pid)
	return nil
}
