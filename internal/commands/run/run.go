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

// Package run implements `jvmctl run`, the launch operation.
package run

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/jvmctl/internal/commands/shared"
	"github.com/tombee/jvmctl/internal/config"
	"github.com/tombee/jvmctl/internal/launch"
	"github.com/tombee/jvmctl/internal/lifecycle"
	"github.com/tombee/jvmctl/internal/log"
)

type runOptions struct {
	javaHome     string
	vmOptions    []string
	classpath    []string
	env          []string
	workingDir   string
	pidFile      string
	lifecycleLog string
	noWait       bool
	forwardStdin bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] MAIN_CLASS [-- PROGRAM_ARGS...]",
		Short: "Launch a JVM and bridge its stdio",
		Long: `Launch a Java Virtual Machine running MAIN_CLASS.

The command line is assembled as:

    <java-home>/bin/java <vm options> -cp <joined classpath> MAIN_CLASS <program args>

The child's stdout and stderr are forwarded to jvmctl's own streams while
it runs. stdin is forwarded when jvmctl is attached to a terminal, or when
--forward-stdin is set. Unless --no-wait is given, jvmctl blocks until the
JVM exits and exits with the JVM's own exit code. Interrupting jvmctl
(SIGINT/SIGTERM) tears the JVM down before exiting.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.javaHome, "java-home", "", "JVM installation root (default: config java_home, then $JAVA_HOME)")
	cmd.Flags().StringArrayVar(&opts.vmOptions, "vm-option", nil, "JVM option, repeatable (e.g. --vm-option -Xmx512m)")
	cmd.Flags().StringArrayVarP(&opts.classpath, "classpath", "c", nil, "Classpath entry, repeatable")
	cmd.Flags().StringArrayVarP(&opts.env, "env", "e", nil, "Environment override NAME=VALUE, repeatable")
	cmd.Flags().StringVar(&opts.workingDir, "working-dir", "", "Working directory for the JVM")
	cmd.Flags().StringVar(&opts.pidFile, "pid-file", "", "Record the JVM's PID in this file")
	cmd.Flags().StringVar(&opts.lifecycleLog, "lifecycle-log", "", "Append launch/exit events to this JSON-lines file")
	cmd.Flags().BoolVar(&opts.noWait, "no-wait", false, "Return immediately after launch instead of waiting for exit")
	cmd.Flags().BoolVar(&opts.forwardStdin, "forward-stdin", false, "Forward stdin to the JVM even when not attached to a terminal")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *runOptions) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewConfigError("failed to load configuration", err)
	}

	logger := newLogger(cfg)

	mainClass := args[0]
	programOptions := args[1:]

	javaHome := opts.javaHome
	if javaHome == "" {
		javaHome = cfg.JavaHome
	}

	vmOptions := append(append([]string{}, cfg.VMOptions...), opts.vmOptions...)
	env := append(append([]string{}, cfg.Env...), opts.env...)

	workingDir := opts.workingDir
	if workingDir == "" {
		workingDir = cfg.WorkingDir
	}

	pidFile := opts.pidFile
	if pidFile == "" {
		pidFile = cfg.PIDFile
	}

	eventLog := opts.lifecycleLog
	if eventLog == "" {
		eventLog = cfg.LifecycleLog
	}

	var rec *lifecycle.Recorder
	if eventLog != "" {
		rec = lifecycle.NewRecorder(eventLog)
		logger = logger.With(log.LaunchIDKey, rec.LaunchID())
	}

	logger.Debug("run invoked",
		"main_class", mainClass,
		"flags", shared.CollectFlags(cmd.Flags()))

	// The PID file guards against a second launch of the same service.
	// A leftover file for a dead process is treated as stale and removed.
	var pm *lifecycle.PIDFileManager
	if pidFile != "" {
		pm = lifecycle.NewPIDFileManager(pidFile)
		if pm.Exists() {
			oldPID, readErr := pm.Read()
			if readErr == nil && lifecycle.IsProcessRunning(oldPID) {
				return shared.NewAlreadyRunningError("JVM already running", launch.ErrAlreadyStarted)
			}
			if rec != nil && readErr == nil {
				_ = rec.RecordStalePID(oldPID, "process no longer running")
			}
			if err := pm.Remove(); err != nil {
				return shared.NewConfigError("failed to remove stale PID file", err)
			}
		}
	}

	// stdin is only bridged in interactive contexts; otherwise the child
	// sees immediate end-of-input.
	var stdin io.Reader
	if !opts.forwardStdin && shared.IsNonInteractive() {
		stdin = strings.NewReader("")
	}

	runner := launch.NewRunner(launch.NewSignalNotifier(), log.WithComponent(logger, "launch"))

	execErr := runner.Exec(launch.ExecOptions{
		JavaHome:       javaHome,
		VMOptions:      vmOptions,
		Classpath:      opts.classpath,
		MainClass:      mainClass,
		ProgramOptions: programOptions,
		WorkingDir:     workingDir,
		Env:            env,
		Stdin:          stdin,
	})
	if execErr != nil {
		if rec != nil {
			_ = rec.RecordLaunchFailure(mainClass, execErr)
		}
		switch {
		case errors.Is(execErr, launch.ErrJavaHomeNotSet):
			return shared.NewConfigError("java home not set (use --java-home, config java_home, or $JAVA_HOME)", execErr)
		case errors.Is(execErr, launch.ErrAlreadyStarted):
			return shared.NewAlreadyRunningError("JVM already running", execErr)
		default:
			return shared.NewLaunchFailedError("failed to launch JVM", execErr)
		}
	}

	pid := runner.PID()
	logger.Info("JVM launched", log.PIDKey, pid, "main_class", mainClass)

	if pm != nil {
		if err := pm.Create(pid); err != nil {
			logger.Warn("failed to create PID file", log.Error(err))
		}
	}
	if rec != nil {
		_ = rec.RecordLaunch(pid, mainClass)
	}

	if opts.noWait {
		// The PID file is left in place for `jvmctl stop`.
		cmd.Printf("%d\n", pid)
		return nil
	}

	code, waitErr := runner.Wait()

	if pm != nil {
		_ = pm.Remove()
	}
	if rec != nil {
		_ = rec.RecordExit(pid, code)
	}

	if waitErr != nil {
		return &shared.ExitError{
			Code:    shared.ExitExecutionError,
			Message: "failed waiting for JVM exit",
			Cause:   waitErr,
		}
	}

	logger.Debug("JVM exited", log.PIDKey, pid, "exit_code", code)

	if code != 0 {
		return shared.NewChildExitError(code)
	}
	return nil
}

// newLogger builds the command's logger. Environment variables win over
// the config file; --verbose and --quiet win over both.
func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.FromEnv()

	envLevelSet := os.Getenv("JVMCTL_DEBUG") != "" ||
		os.Getenv("JVMCTL_LOG_LEVEL") != "" ||
		os.Getenv("LOG_LEVEL") != ""
	if !envLevelSet && cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if os.Getenv("LOG_FORMAT") == "" && cfg.Log.Format != "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}

	if shared.GetVerbose() {
		logCfg.Level = "debug"
	}
	if shared.GetQuiet() {
		logCfg.Level = "error"
	}

	return log.New(logCfg)
}
