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
	"slices"
	"testing"
)

func TestMergeEnviron(t *testing.T) {
	t.Run("host variables precede overrides", func(t *testing.T) {
		t.Setenv("JVMCTL_TEST_FOO", "1")

		merged := MergeEnviron([]string{"JVMCTL_TEST_BAR=2"})

		fooIdx := slices.Index(merged, "JVMCTL_TEST_FOO=1")
		barIdx := slices.Index(merged, "JVMCTL_TEST_BAR=2")

		if fooIdx < 0 {
			t.Fatal("merged environment missing host variable JVMCTL_TEST_FOO=1")
		}
		if barIdx < 0 {
			t.Fatal("merged environment missing override JVMCTL_TEST_BAR=2")
		}
		if fooIdx > barIdx {
			t.Errorf("host variable at %d appears after override at %d", fooIdx, barIdx)
		}
	})

	t.Run("nil overrides means no overrides", func(t *testing.T) {
		merged := MergeEnviron(nil)
		if len(merged) == 0 {
			t.Fatal("merged environment is empty")
		}
	})

	t.Run("duplicates are not collapsed", func(t *testing.T) {
		t.Setenv("JVMCTL_TEST_DUP", "host")

		merged := MergeEnviron([]string{"JVMCTL_TEST_DUP=override"})

		if !slices.Contains(merged, "JVMCTL_TEST_DUP=host") {
			t.Error("host entry dropped")
		}
		if !slices.Contains(merged, "JVMCTL_TEST_DUP=override") {
			t.Error("override entry dropped")
		}
	})
}
