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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Event represents a lifecycle event for one launched JVM.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"` // "launch", "launch_failure", "exit", "stop", "stop_failure", "stale_pid_detected"
	LaunchID  string    `json:"launch_id"`
	PID       int       `json:"pid,omitempty"`
	MainClass string    `json:"main_class,omitempty"`
	ExitCode  int       `json:"exit_code,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Recorder appends JVM lifecycle events to a JSON-lines audit log. All
// events written by one Recorder share a launch ID.
type Recorder struct {
	logPath  string
	launchID string
}

// NewRecorder creates a recorder writing to logPath with a fresh launch ID.
func NewRecorder(logPath string) *Recorder {
	return &Recorder{
		logPath:  logPath,
		launchID: uuid.New().String(),
	}
}

// LaunchID returns the recorder's launch ID.
func (r *Recorder) LaunchID() string {
	return r.launchID
}

// RecordLaunch logs a successful JVM launch.
func (r *Recorder) RecordLaunch(pid int, mainClass string) error {
	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "launch",
		LaunchID:  r.launchID,
		PID:       pid,
		MainClass: mainClass,
		Success:   true,
		Message:   "JVM launched",
	})
}

// RecordLaunchFailure logs a failed JVM launch.
func (r *Recorder) RecordLaunchFailure(mainClass string, err error) error {
	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "launch_failure",
		LaunchID:  r.launchID,
		MainClass: mainClass,
		Success:   false,
		Message:   "JVM failed to launch",
		Error:     err.Error(),
	})
}

// RecordExit logs the JVM exiting with the given code.
func (r *Recorder) RecordExit(pid, exitCode int) error {
	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "exit",
		LaunchID:  r.launchID,
		PID:       pid,
		ExitCode:  exitCode,
		Success:   exitCode == 0,
		Message:   fmt.Sprintf("JVM exited with code %d", exitCode),
	})
}

// RecordStop logs a stop request for the JVM.
func (r *Recorder) RecordStop(pid int, force bool) error {
	message := "JVM stop initiated"
	if force {
		message = "JVM force stop initiated"
	}

	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "stop",
		LaunchID:  r.launchID,
		PID:       pid,
		Success:   true,
		Message:   message,
	})
}

// RecordStopFailure logs a failed stop attempt.
func (r *Recorder) RecordStopFailure(pid int, err error) error {
	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "stop_failure",
		LaunchID:  r.launchID,
		PID:       pid,
		Success:   false,
		Message:   "Failed to stop JVM",
		Error:     err.Error(),
	})
}

// RecordStalePID logs detection of a stale PID file.
func (r *Recorder) RecordStalePID(pid int, reason string) error {
	return r.writeEvent(Event{
		Timestamp: time.Now(),
		Event:     "stale_pid_detected",
		LaunchID:  r.launchID,
		PID:       pid,
		Success:   true,
		Message:   fmt.Sprintf("Stale PID file detected: %s", reason),
	})
}

// writeEvent appends a lifecycle event to the log file.
func (r *Recorder) writeEvent(event Event) error {
	logDir := filepath.Dir(r.logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(r.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lifecycle log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
