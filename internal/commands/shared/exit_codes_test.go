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
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "message only",
			err:  &ExitError{Code: ExitInvalidConfig, Message: "bad config"},
			want: "bad config",
		},
		{
			name: "message and cause",
			err:  &ExitError{Code: ExitLaunchFailed, Message: "launch failed", Cause: errors.New("no such file")},
			want: "launch failed: no such file",
		},
		{
			name: "cause only",
			err:  &ExitError{Code: ExitExecutionError, Cause: errors.New("boom")},
			want: "boom",
		},
		{
			name: "silent child exit",
			err:  NewChildExitError(7),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewLaunchFailedError("spawn failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the cause")
	}

	var exitErr *ExitError
	if !errors.As(error(err), &exitErr) {
		t.Fatal("errors.As failed")
	}
	if exitErr.Code != ExitLaunchFailed {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitLaunchFailed)
	}
}

func TestExitErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		code int
	}{
		{"config", NewConfigError("x", nil), ExitInvalidConfig},
		{"already running", NewAlreadyRunningError("x", nil), ExitAlreadyRunning},
		{"launch failed", NewLaunchFailedError("x", nil), ExitLaunchFailed},
		{"child exit", NewChildExitError(42), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
		})
	}
}
