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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gposingway/sharingway/internal/shm"
)

// registryLockTimeout bounds every registry mutation.
const registryLockTimeout = 5 * time.Second

// registryWatchInterval is the bounded wait the background watcher uses,
// giving shutdown a liveness pulse so it is observed promptly.
const registryWatchInterval = time.Second

// Status is the liveness state of a registered Provider.
type Status int

const (
	StatusOffline Status = iota
	StatusOnline
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusError:
		return "error"
	default:
		return "offline"
	}
}

// parseStatus decodes a status string. Unknown strings decode as offline,
// matching the documented registry document schema.
func parseStatus(s string) Status {
	switch s {
	case "online":
		return StatusOnline
	case "error":
		return StatusError
	default:
		return StatusOffline
	}
}

// ProviderEntry is one Registry record.
type ProviderEntry struct {
	Name          string
	Status        Status
	Description   string
	Capabilities  []string
	LastUpdate    int64
	LastHeartbeat int64
}

// Registry is the single well-known SharedRegion+NamedSync pair holding a
// map of provider name to metadata. Every Provider and Subscriber creates
// its own Registry handle; all of them attach to the same shared region.
type Registry struct {
	cfg    Config
	logger *zap.Logger

	region *shm.Region
	sync   *shm.Sync

	running atomic.Bool

	watchDone chan struct{}

	callbackMu sync.Mutex
	onChange   func()
}

// NewRegistry constructs an unattached Registry; call Initialize before
// use.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:    cfg,
		logger: cfg.logger(),
	}
}

// Initialize attaches the registry's region and sync, and if no valid
// document is present, writes an empty map. Every participant that calls
// Initialize may be either the creator or an attacher and the resulting
// state is identical; calling it again on an already-initialized Registry
// is a no-op that returns success.
func (r *Registry) Initialize() error {
	if r.running.Load() {
		return nil
	}

	region, err := shm.AttachRegion(r.logger, shm.RegistryRegionName(), r.cfg.capacity(), r.cfg.GlobalNamespace.toInternal(), r.cfg.namespaceRoot)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	sy, err := shm.AttachSync(r.logger, shm.RegistrySyncBase, r.cfg.GlobalNamespace.toInternal(), r.cfg.namespaceRoot)
	if err != nil {
		region.Close()
		return fmt.Errorf("registry: %w", err)
	}
	r.region = region
	r.sync = sy

	// Handles stay attached even if the bootstrap lock below fails: a
	// caller that could not establish initial state may still attempt
	// reads through List in degraded mode.
	r.watchDone = make(chan struct{})
	r.running.Store(true)
	go r.watch()

	if err := sy.Lock(registryLockTimeout); err != nil {
		return fmt.Errorf("registry: %w", ErrUnavailable)
	}
	raw, readErr := region.Read()
	if readErr == nil && raw != nil {
		_, readErr = decodeRegistry(raw)
	}
	wroteEmpty := false
	if readErr != nil || raw == nil {
		if encoded, encErr := encodeRegistry(map[string]ProviderEntry{}); encErr == nil {
			region.Write(encoded)
			wroteEmpty = true
		}
	}
	sy.Unlock()
	if wroteEmpty {
		sy.Pulse()
	}

	r.logger.Debug("registry initialized", zap.String("component", "registry"))
	return nil
}

func (r *Registry) watch() {
	defer close(r.watchDone)
	for r.running.Load() {
		signaled, err := r.sync.WaitSignal(registryWatchInterval)
		if err != nil {
			return
		}
		if !signaled || !r.running.Load() {
			continue
		}
		r.callbackMu.Lock()
		handler := r.onChange
		r.callbackMu.Unlock()
		if handler != nil {
			handler()
		}
	}
}

// SetChangeHandler installs fn to be invoked, on the watcher thread, after
// every observed signal. Only one handler may be installed; a later call
// replaces the previous one.
func (r *Registry) SetChangeHandler(fn func()) {
	r.callbackMu.Lock()
	r.onChange = fn
	r.callbackMu.Unlock()
}

// mutate implements the lock -> read -> mutate -> write -> unlock -> pulse
// protocol shared by every mutating operation, in that literal order: the
// lock is released before the pulse, matching Provider.Publish's own
// sequencing. A decode failure on read is treated as an empty map.
func (r *Registry) mutate(fn func(map[string]ProviderEntry) (map[string]ProviderEntry, error)) error {
	if !r.running.Load() {
		return ErrNotInitialized
	}
	if err := r.sync.Lock(registryLockTimeout); err != nil {
		return ErrLocked
	}

	entries, err := r.readLocked()
	if err != nil {
		entries = map[string]ProviderEntry{}
	}
	next, err := fn(entries)
	if err != nil {
		r.sync.Unlock()
		return err
	}
	encoded, err := encodeRegistry(next)
	if err != nil {
		r.sync.Unlock()
		return fmt.Errorf("registry: %w", ErrEncode)
	}
	writeErr := r.region.Write(encoded)
	r.sync.Unlock()
	if writeErr != nil {
		return writeErr
	}
	r.sync.Pulse()
	return nil
}

func (r *Registry) readLocked() (map[string]ProviderEntry, error) {
	raw, err := r.region.Read()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]ProviderEntry{}, nil
	}
	return decodeRegistry(raw)
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// Register creates or overwrites the entry for name, with status online
// and both timestamps set to now. A second Register of a live name
// overwrites it, matching the observed behavior of the original
// implementation.
func (r *Registry) Register(name, description string, capabilities []string) error {
	return r.mutate(func(entries map[string]ProviderEntry) (map[string]ProviderEntry, error) {
		now := nowMillis()
		entries[name] = ProviderEntry{
			Name:          name,
			Status:        StatusOnline,
			Description:   description,
			Capabilities:  capabilities,
			LastUpdate:    now,
			LastHeartbeat: now,
		}
		return entries, nil
	})
}

// UpdateStatus refreshes the status and heartbeat of an existing entry. It
// fails with ErrNotFound if name has never been registered.
func (r *Registry) UpdateStatus(name string, status Status) error {
	return r.mutate(func(entries map[string]ProviderEntry) (map[string]ProviderEntry, error) {
		e, ok := entries[name]
		if !ok {
			return nil, ErrNotFound
		}
		e.Status = status
		now := nowMillis()
		e.LastUpdate = now
		e.LastHeartbeat = now
		entries[name] = e
		return entries, nil
	})
}

// Remove deletes the entry for name. Removing an absent name is not an
// error.
func (r *Registry) Remove(name string) error {
	return r.mutate(func(entries map[string]ProviderEntry) (map[string]ProviderEntry, error) {
		delete(entries, name)
		return entries, nil
	})
}

// List returns every entry, stale or not; callers wanting liveness
// filtering apply it themselves (see Subscriber's stale-provider
// detection).
func (r *Registry) List() ([]ProviderEntry, error) {
	if !r.running.Load() {
		return nil, ErrNotInitialized
	}
	if err := r.sync.Lock(registryLockTimeout); err != nil {
		// Degraded mode: a lock that cannot be acquired does not block
		// reads entirely.
		raw, rerr := r.region.Read()
		if rerr != nil || raw == nil {
			return nil, nil
		}
		entries, derr := decodeRegistry(raw)
		if derr != nil {
			return nil, nil
		}
		return entriesToList(entries), nil
	}
	entries, err := r.readLocked()
	r.sync.Unlock()
	if err != nil {
		return nil, nil
	}
	return entriesToList(entries), nil
}

func entriesToList(entries map[string]ProviderEntry) []ProviderEntry {
	out := make([]ProviderEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	return out
}

// Shutdown stops the change watcher and detaches the registry's handles.
func (r *Registry) Shutdown() error {
	if !r.running.Swap(false) {
		return nil
	}
	if r.watchDone != nil {
		<-r.watchDone
	}
	var err error
	if r.sync != nil {
		err = multierr.Append(err, r.sync.Close())
	}
	if r.region != nil {
		err = multierr.Append(err, r.region.Close())
	}
	return err
}
