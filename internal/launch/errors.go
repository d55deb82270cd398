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
	"fmt"
)

var (
	// ErrJavaHomeNotSet is returned when Exec is called without a JVM home path.
	ErrJavaHomeNotSet = errors.New("java home not set")

	// ErrAlreadyStarted is returned when Exec is called while a process is still owned.
	ErrAlreadyStarted = errors.New("process already started")

	// ErrNotStarted is returned when Wait is called before a successful Exec.
	ErrNotStarted = errors.New("no process started")
)

// LaunchError wraps an OS-level spawn failure. The underlying cause is
// available through errors.Unwrap.
type LaunchError struct {
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start the process: %v", e.Cause)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}
