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

import "os"

// MergeEnviron combines the host environment with caller-supplied
// "NAME=VALUE" overrides. Host variables come first, overrides are appended
// verbatim. Duplicate names are not collapsed here; the process-creation
// API applies its own last-writer-wins handling. A nil override list means
// no overrides.
func MergeEnviron(overrides []string) []string {
	env := os.Environ()
	merged := make([]string, 0, len(env)+len(overrides))
	merged = append(merged, env...)
	merged = append(merged, overrides...)
	return merged
}
