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

package shared

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for jvmctl. A successful `jvmctl run` exits with the child
// JVM's own exit code.
const (
	ExitSuccess        = 0
	ExitExecutionError = 1
	ExitInvalidConfig  = 2
	ExitAlreadyRunning = 3
	ExitLaunchFailed   = 4
)

// ExitError is an error that carries an exit code. An ExitError with no
// message and no cause exits silently; this is how a nonzero child exit
// code is propagated without printing an error of our own.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for invalid or missing configuration
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidConfig,
		Message: msg,
		Cause:   cause,
	}
}

// NewAlreadyRunningError creates an error for a launch attempted while a
// process is already owned
func NewAlreadyRunningError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitAlreadyRunning,
		Message: msg,
		Cause:   cause,
	}
}

// NewLaunchFailedError creates an error for OS-level spawn failures
func NewLaunchFailedError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitLaunchFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewChildExitError propagates the child JVM's own exit code silently
func NewChildExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// HandleExitError prints the error (unless it is a silent child-exit
// propagation) and exits with the appropriate code.
func HandleExitError(err error) {
	if err == nil {
		os.Exit(ExitSuccess)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" || exitErr.Cause != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitExecutionError)
}
