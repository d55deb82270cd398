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

/*
Package lifecycle manages JVM child process lifecycle operations outside
the launch path itself: PID files, process validation, and event auditing.

# PID File Management

PID files are security-sensitive as they control which process receives
shutdown signals. The package uses exclusive file locking (flock) and
atomic creation (O_EXCL) to prevent race conditions and symlink attacks:

	manager := lifecycle.NewPIDFileManager("/path/to/jvm.pid")
	if err := manager.Create(pid); err != nil {
	    // Handle error
	}
	defer manager.Remove()

# Process Operations

Process validation ensures signals are sent only to JVM processes,
preventing accidental kills of unrelated processes when a PID file has
gone stale:

	pid, err := manager.Read()
	if err != nil {
	    // Handle error
	}

	if !lifecycle.IsJavaProcess(pid) {
	    // PID file is stale or corrupted
	}

	if err := lifecycle.SendSignal(pid, syscall.SIGTERM); err != nil {
	    // Handle error
	}

# Event Auditing

Launch and shutdown events are appended to a JSON-lines log, keyed by a
launch ID, for post-hoc inspection:

	rec := lifecycle.NewRecorder("/path/to/lifecycle.log")
	rec.RecordLaunch(pid, "org.example.Main")
	rec.RecordExit(pid, exitCode)
*/
package lifecycle
