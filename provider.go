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
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gposingway/sharingway/internal/shm"
)

// publishLockTimeout bounds Publish's channel lock acquisition.
const publishLockTimeout = 5 * time.Second

// shutdownLockTimeout bounds Shutdown's best-effort final write.
const shutdownLockTimeout = time.Second

// Provider owns one channel (SharedRegion+NamedSync pair) and publishes
// documents into it. It exclusively owns the writer role of its channel
// and its own Registry entry.
type Provider struct {
	name         string
	description  string
	capabilities []string
	instanceID   string

	cfg      Config
	logger   *zap.Logger
	registry *Registry

	region *shm.Region
	sync   *shm.Sync

	online atomic.Bool
}

// NewProvider attaches to (or initializes) the Registry and writes this
// provider's entry with status online. The returned Provider's own
// channel is not yet attached; call Initialize before Publish.
func NewProvider(name, description string, capabilities []string, cfg Config) (*Provider, error) {
	logger := cfg.logger()
	registry := NewRegistry(cfg)
	if err := registry.Initialize(); err != nil {
		return nil, err
	}
	if err := registry.Register(name, description, capabilities); err != nil {
		registry.Shutdown()
		return nil, err
	}

	p := &Provider{
		name:         name,
		description:  description,
		capabilities: capabilities,
		instanceID:   uuid.NewString(),
		cfg:          cfg,
		logger:       logger,
		registry:     registry,
	}
	p.logger.Debug("provider registered", zap.String("component", "provider"), zap.String("name", name), zap.String("instance", p.instanceID))
	return p, nil
}

// Initialize attaches the provider's own channel. capacity, if given,
// overrides the configured default; it is ignored if the channel already
// existed (a later attacher receives the existing capacity).
func (p *Provider) Initialize(capacity ...int) error {
	size := p.cfg.capacity()
	if len(capacity) > 0 && capacity[0] > 0 {
		size = capacity[0]
	}
	mode := p.cfg.GlobalNamespace.toInternal()

	region, err := shm.AttachRegion(p.logger, shm.ProviderChannelName(p.name), size, mode, p.cfg.namespaceRoot)
	if err != nil {
		return fmt.Errorf("provider %s: %w", p.name, err)
	}
	sy, err := shm.AttachSync(p.logger, p.name, mode, p.cfg.namespaceRoot)
	if err != nil {
		region.Close()
		return fmt.Errorf("provider %s: %w", p.name, err)
	}
	p.region = region
	p.sync = sy
	p.online.Store(true)

	// Re-assert online now that the channel is actually attached; Register
	// already set it, but a caller that reused a Provider across
	// Initialize calls should not rely on that earlier write.
	if err := p.registry.UpdateStatus(p.name, StatusOnline); err != nil && err != ErrLocked {
		return err
	}
	return nil
}

// Publish writes doc to the channel and notifies any waiting Subscriber.
// A failed Publish leaves any prior snapshot intact.
func (p *Provider) Publish(doc Document) error {
	if !p.online.Load() {
		return ErrNotInitialized
	}
	encoded, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := p.sync.Lock(publishLockTimeout); err != nil {
		return ErrLocked
	}
	writeErr := p.region.Write(encoded)
	p.sync.Unlock()
	if writeErr != nil {
		return writeErr
	}
	p.sync.Pulse()

	// A Locked failure here is reported as data-delivery success with only
	// the heartbeat skipped.
	if err := p.registry.UpdateStatus(p.name, StatusOnline); err != nil && err != ErrLocked {
		p.logger.Debug("heartbeat update failed", zap.String("component", "provider"), zap.Error(err))
	}
	return nil
}

// IsOnline reports whether the channel is currently attached.
func (p *Provider) IsOnline() bool { return p.online.Load() }

// Name returns the provider's registered name.
func (p *Provider) Name() string { return p.name }

// Shutdown writes the empty-object sentinel, marks the Registry entry
// offline, and detaches every handle this Provider owns. The Registry
// entry is intentionally not removed, so subscribers can still see that
// the provider existed and went offline.
func (p *Provider) Shutdown() error {
	if !p.online.Swap(false) {
		return p.registry.Shutdown()
	}
	if err := p.sync.Lock(shutdownLockTimeout); err == nil {
		if empty, encErr := encodeDocument(NewObject(map[string]Document{})); encErr == nil {
			p.region.Write(empty)
		}
		p.sync.Unlock()
		p.sync.Pulse()
	}

	var err error
	err = multierr.Append(err, p.registry.UpdateStatus(p.name, StatusOffline))
	err = multierr.Append(err, p.sync.Close())
	err = multierr.Append(err, p.region.Close())
	err = multierr.Append(err, p.registry.Shutdown())
	return err
}
