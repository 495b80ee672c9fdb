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

package sharingway

import (
	"go.uber.org/zap"

	"github.com/gposingway/sharingway/internal/shm"
)

// DefaultCapacity is the default size, in bytes, of a channel's backing
// region.
const DefaultCapacity = 1 << 20

// GlobalNamespaceMode controls whether a Provider or Subscriber tries the
// system-wide shared-memory namespace before falling back to one scoped to
// the current session.
type GlobalNamespaceMode int

const (
	// GlobalNamespaceAuto tries the global namespace first, falling back
	// to the session-local one if it is unusable. This is the default.
	GlobalNamespaceAuto GlobalNamespaceMode = iota
	// GlobalNamespaceForce uses only the global namespace; attach fails
	// if it is unusable.
	GlobalNamespaceForce
	// GlobalNamespaceDisable uses only the session-local namespace.
	GlobalNamespaceDisable
)

func (m GlobalNamespaceMode) toInternal() shm.NamespaceMode {
	switch m {
	case GlobalNamespaceForce:
		return shm.NamespaceForce
	case GlobalNamespaceDisable:
		return shm.NamespaceDisable
	default:
		return shm.NamespaceAuto
	}
}

// Config holds the options every component accepts at construction. The
// zero value behaves like DefaultConfig: a nil Logger and a non-positive
// DefaultCapacity fall back to their defaults.
type Config struct {
	// DebugLogging is carried in the configuration but no code in this
	// package reads it: what is logged depends only on Logger and its
	// level.
	DebugLogging bool
	// DefaultCapacity overrides DefaultCapacity for regions this
	// component creates. Regions it only attaches to keep their
	// existing capacity regardless of this setting.
	DefaultCapacity int
	// GlobalNamespace controls the global/session-local namespace
	// fallback policy.
	GlobalNamespace GlobalNamespaceMode
	// Logger receives structured diagnostics. A nil Logger is treated
	// as zap.NewNop(): the package is silent unless a caller opts in.
	Logger *zap.Logger

	// namespaceRoot overrides the session-local namespace directory.
	// Unexported: production callers get the default
	// ${TMPDIR}/sharingway-<uid> location by leaving it unset; this
	// exists so multiple independent namespaces (and this package's own
	// tests, which would otherwise all collide on the registry's fixed
	// well-known name) can coexist in one process.
	namespaceRoot string
}

// DefaultConfig returns the documented defaults: 1 MiB capacity, automatic
// namespace fallback, and no logging.
func DefaultConfig() Config {
	return Config{
		DefaultCapacity: DefaultCapacity,
		GlobalNamespace: GlobalNamespaceAuto,
		Logger:          zap.NewNop(),
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) capacity() int {
	if c.DefaultCapacity <= 0 {
		return DefaultCapacity
	}
	return c.DefaultCapacity
}
