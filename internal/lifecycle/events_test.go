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
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.NoError(t, scanner.Err())

	return events
}

func TestRecorder(t *testing.T) {
	t.Run("records a full launch cycle", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lifecycle.log")
		rec := NewRecorder(path)

		require.NoError(t, rec.RecordLaunch(100, "org.example.Main"))
		require.NoError(t, rec.RecordExit(100, 0))

		events := readEvents(t, path)
		require.Len(t, events, 2)

		assert.Equal(t, "launch", events[0].Event)
		assert.Equal(t, 100, events[0].PID)
		assert.Equal(t, "org.example.Main", events[0].MainClass)
		assert.True(t, events[0].Success)

		assert.Equal(t, "exit", events[1].Event)
		assert.Equal(t, 0, events[1].ExitCode)
		assert.True(t, events[1].Success)

		// Both events belong to the same launch.
		assert.Equal(t, rec.LaunchID(), events[0].LaunchID)
		assert.Equal(t, events[0].LaunchID, events[1].LaunchID)
	})

	t.Run("nonzero exit is recorded as failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lifecycle.log")
		rec := NewRecorder(path)

		require.NoError(t, rec.RecordExit(100, 7))

		events := readEvents(t, path)
		require.Len(t, events, 1)
		assert.Equal(t, 7, events[0].ExitCode)
		assert.False(t, events[0].Success)
	})

	t.Run("launch failure carries the cause", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lifecycle.log")
		rec := NewRecorder(path)

		require.NoError(t, rec.RecordLaunchFailure("org.example.Main", errors.New("no such file")))

		events := readEvents(t, path)
		require.Len(t, events, 1)
		assert.Equal(t, "launch_failure", events[0].Event)
		assert.False(t, events[0].Success)
		assert.Contains(t, events[0].Error, "no such file")
	})

	t.Run("appends across recorders", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lifecycle.log")

		first := NewRecorder(path)
		second := NewRecorder(path)
		require.NoError(t, first.RecordLaunch(1, "a.Main"))
		require.NoError(t, second.RecordLaunch(2, "b.Main"))

		events := readEvents(t, path)
		require.Len(t, events, 2)
		assert.NotEqual(t, events[0].LaunchID, events[1].LaunchID)
	})

	t.Run("creates log directory if missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "lifecycle.log")
		rec := NewRecorder(path)

		require.NoError(t, rec.RecordStalePID(42, "process no longer running"))

		events := readEvents(t, path)
		require.Len(t, events, 1)
		assert.Equal(t, "stale_pid_detected", events[0].Event)
	})
}
