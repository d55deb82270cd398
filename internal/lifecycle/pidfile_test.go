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
	"os"
	"path/filepath"
	"testing"
)

func TestPIDFileManager_Create(t *testing.T) {
	t.Run("creates file with PID", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")
		m := NewPIDFileManager(path)

		if err := m.Create(12345); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer m.Remove()

		pid, err := m.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 12345 {
			t.Errorf("Read() = %d, want 12345", pid)
		}
	})

	t.Run("sets restrictive permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")
		m := NewPIDFileManager(path)

		if err := m.Create(1); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer m.Remove()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if mode := info.Mode() & os.ModePerm; mode != 0600 {
			t.Errorf("PID file mode = %04o, want 0600", mode)
		}
	})

	t.Run("creates missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "jvm.pid")
		m := NewPIDFileManager(path)

		if err := m.Create(1); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer m.Remove()

		if !m.Exists() {
			t.Error("PID file not created")
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")

		first := NewPIDFileManager(path)
		if err := first.Create(1); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer first.Remove()

		second := NewPIDFileManager(path)
		if err := second.Create(2); !errors.Is(err, ErrPIDFileExists) {
			t.Errorf("Create() error = %v, want ErrPIDFileExists", err)
		}
	})

	t.Run("rejects world-writable parent directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Chmod(dir, 0777); err != nil {
			t.Fatalf("Chmod() error = %v", err)
		}

		m := NewPIDFileManager(filepath.Join(dir, "jvm.pid"))
		err := m.Create(1)
		if !errors.Is(err, ErrUnsafeDirectory) {
			t.Errorf("Create() error = %v, want ErrUnsafeDirectory", err)
		}
	})
}

func TestPIDFileManager_Read(t *testing.T) {
	t.Run("rejects non-numeric content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")
		if err := os.WriteFile(path, []byte("not-a-pid\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		m := NewPIDFileManager(path)
		if _, err := m.Read(); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("Read() error = %v, want ErrInvalidPID", err)
		}
	})

	t.Run("rejects non-positive PID", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")
		if err := os.WriteFile(path, []byte("-5\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		m := NewPIDFileManager(path)
		if _, err := m.Read(); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("Read() error = %v, want ErrInvalidPID", err)
		}
	})

	t.Run("missing file reports not-exist", func(t *testing.T) {
		m := NewPIDFileManager(filepath.Join(t.TempDir(), "absent.pid"))
		if _, err := m.Read(); !os.IsNotExist(err) {
			t.Errorf("Read() error = %v, want not-exist", err)
		}
	})
}

func TestPIDFileManager_Remove(t *testing.T) {
	t.Run("removes file and releases lock", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jvm.pid")
		m := NewPIDFileManager(path)

		if err := m.Create(1); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := m.Remove(); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if m.Exists() {
			t.Error("PID file still exists after Remove")
		}

		// Path is reusable after removal.
		if err := m.Create(2); err != nil {
			t.Errorf("Create() after Remove() error = %v", err)
		}
		m.Remove()
	})

	t.Run("removing a missing file is not an error", func(t *testing.T) {
		m := NewPIDFileManager(filepath.Join(t.TempDir(), "absent.pid"))
		if err := m.Remove(); err != nil {
			t.Errorf("Remove() error = %v", err)
		}
	})
}
