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
Package launch starts and supervises a single JVM child process.

The Runner builds the java command line, merges the caller's environment
overrides over the host environment, spawns the process, and bridges the
child's stdio to the parent through three pipe workers. Teardown is
exactly-once: it may be triggered by the child exiting, by an explicit
Shutdown call, or by the host receiving a termination signal, and all
three collapse to a single execution.

# Launching

	runner := launch.NewRunner(launch.NewSignalNotifier(), logger)
	err := runner.Exec(launch.ExecOptions{
	    JavaHome:  "/usr/lib/jvm/default",
	    VMOptions: []string{"-Xmx512m"},
	    Classpath: []string{"lib/app.jar", "lib/dep.jar"},
	    MainClass: "org.example.Main",
	})
	if err != nil {
	    // Handle error
	}
	code, _ := runner.Wait()

# Teardown ordering

Shutdown releases the exit-notifier registration, clears the process slot
(so a later Exec is permitted), stops the pipe workers, then kills the OS
process if it is still alive. A reaper goroutine started at launch
collects the exit status, so a killed child is never left as a zombie.
All errors during teardown are suppressed; shutdown must run to
completion even while the host is itself terminating.

# Stdio forwarding

Pipe workers are best-effort. A read or write error (broken pipe, stream
closed underneath the worker) ends that worker's loop silently and is
logged at debug level only. Forwarding is diagnostic, not a transport with
delivery guarantees, and errors here never reach the caller.
*/
package launch
