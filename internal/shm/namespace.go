/*
 * Copyright 2026 Sharingway authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NamespaceMode controls whether an attach attempt tries the global,
// system-wide namespace before falling back to a session-local one.
type NamespaceMode int

const (
	// NamespaceAuto tries the global namespace first and falls back to a
	// session-local one if the global namespace is unusable.
	NamespaceAuto NamespaceMode = iota
	// NamespaceForce uses only the global namespace; attach fails if it is
	// unusable.
	NamespaceForce
	// NamespaceDisable uses only the session-local namespace.
	NamespaceDisable
)

// globalDir is this platform's stand-in for Windows' "Global\" kernel
// namespace: /dev/shm is world-writable tmpfs shared by every process on
// the machine regardless of session, which is the POSIX analogue of a
// cross-session namespace.
const globalDir = "/dev/shm"

func globalDirUsable() bool {
	info, err := os.Stat(globalDir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe := filepath.Join(globalDir, ".sharingway-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

// sessionDir returns the session-local namespace directory. root, when
// non-empty, overrides the default ${TMPDIR}/sharingway-<uid> location —
// embedders that want several independent Sharingway namespaces in one
// process (and this package's own tests, which want per-test isolation
// for the registry's otherwise-fixed well-known name) set it explicitly.
func sessionDir(root string) (string, error) {
	dir := root
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "sharingway-"+strconv.Itoa(os.Getuid()))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("session namespace dir: %w", err)
	}
	return dir, nil
}

// candidateDirs returns the ordered list of directories an attach should
// try: the "<P>"-prefixed (global) namespace first, then the unprefixed
// (session-local) one.
func candidateDirs(mode NamespaceMode, root string) ([]string, error) {
	switch mode {
	case NamespaceDisable:
		dir, err := sessionDir(root)
		if err != nil {
			return nil, err
		}
		return []string{dir}, nil
	case NamespaceForce:
		if !globalDirUsable() {
			return nil, fmt.Errorf("global namespace %s is unusable", globalDir)
		}
		return []string{globalDir}, nil
	default:
		var dirs []string
		if globalDirUsable() {
			dirs = append(dirs, globalDir)
		}
		if dir, err := sessionDir(root); err == nil {
			dirs = append(dirs, dir)
		}
		if len(dirs) == 0 {
			return nil, fmt.Errorf("no usable namespace directory")
		}
		return dirs, nil
	}
}

// sanitizeName maps a logical Sharingway name to a safe filesystem
// component, since names may contain characters (".") that are fine in a
// filename but must not be confused with path separators if ever nested.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
