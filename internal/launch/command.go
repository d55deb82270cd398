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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CommandLine accumulates ordered command-line tokens for process creation.
// Tokens are passed to the OS verbatim; no quoting or escaping is applied.
type CommandLine struct {
	tokens []string
}

// Append adds a single token.
func (c *CommandLine) Append(token string) *CommandLine {
	c.tokens = append(c.tokens, token)
	return c
}

// AppendAll adds all tokens in order.
func (c *CommandLine) AppendAll(tokens []string) *CommandLine {
	c.tokens = append(c.tokens, tokens...)
	return c
}

// Tokens returns the flattened token sequence.
func (c *CommandLine) Tokens() []string {
	return c.tokens
}

// JavaExecutable returns the path to the java binary under the given JVM
// home directory. Returns ErrJavaHomeNotSet for an empty home path.
func JavaExecutable(javaHome string) (string, error) {
	if javaHome == "" {
		return "", ErrJavaHomeNotSet
	}

	name := "java"
	if runtime.GOOS == "windows" {
		name = "java.exe"
	}

	return filepath.Join(javaHome, "bin", name), nil
}

// JoinClasspath joins classpath entries with the platform's path-list
// separator. Empty entries are skipped; order is preserved and duplicates
// are kept.
func JoinClasspath(entries []string) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}
