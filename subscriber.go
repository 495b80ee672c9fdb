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

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gposingway/sharingway/internal/shm"
)

// DefaultStaleAfter is how long a provider's entry may go without a
// heartbeat before effectiveStatus reports it offline, absent an explicit
// Subscriber.StaleAfter. The source system never garbage-collects crashed
// providers; this is the subscriber-local, advisory threshold this
// implementation picks in place of that open question.
const DefaultStaleAfter = 10 * time.Second

// watchPollInterval is the bounded wait every subscription's watch task
// uses, giving shutdown a bounded latency. The registry-change watcher
// uses registryWatchInterval.
const watchPollInterval = time.Second

// DataHandler is invoked once per pulse a subscription observes, on that
// subscription's watch goroutine. The handler is read under the
// Subscriber's callback mutex and called after the mutex is released. It
// must not block or call back into the Subscriber.
type DataHandler func(providerName string, doc Document)

// StatusHandler is invoked once per registry entry on every observed
// registry change, on the registry watcher goroutine. The handler is read
// under the Subscriber's callback mutex and called after it is released.
type StatusHandler func(providerName string, status Status)

type subscription struct {
	name   string
	region *shm.Region
	sync   *shm.Sync
	stop   chan struct{}
	done   chan struct{}
}

// Subscriber attaches to other providers' channels and the shared
// Registry, invoking user-supplied callbacks on its own watcher threads.
type Subscriber struct {
	cfg        Config
	logger     *zap.Logger
	instanceID string
	registry   *Registry

	// StaleAfter is the heartbeat-age threshold effectiveStatus applies.
	// Zero disables stale detection entirely.
	StaleAfter time.Duration

	running atomic.Bool

	subMu sync.Mutex
	subs  map[string]*subscription

	callbackMu    sync.Mutex
	dataHandler   DataHandler
	statusHandler StatusHandler
}

// NewSubscriber constructs an unattached Subscriber; call Initialize
// before Subscribe.
func NewSubscriber(cfg Config) *Subscriber {
	return &Subscriber{
		cfg:        cfg,
		logger:     cfg.logger(),
		instanceID: uuid.NewString(),
		StaleAfter: DefaultStaleAfter,
		subs:       make(map[string]*subscription),
	}
}

// Initialize attaches to the Registry and installs a registry-change
// handler that re-lists providers and invokes the status handler for
// each entry on every observed signal.
func (s *Subscriber) Initialize() error {
	if s.running.Load() {
		return nil
	}
	registry := NewRegistry(s.cfg)
	if err := registry.Initialize(); err != nil {
		return err
	}
	registry.SetChangeHandler(s.onRegistryChange)
	s.registry = registry
	s.running.Store(true)
	return nil
}

func (s *Subscriber) onRegistryChange() {
	entries, err := s.registry.List()
	if err != nil {
		return
	}
	s.callbackMu.Lock()
	handler := s.statusHandler
	s.callbackMu.Unlock()
	if handler == nil {
		return
	}
	now := nowMillis()
	for _, e := range entries {
		handler(e.Name, effectiveStatus(e, now, s.StaleAfter))
	}
}

// effectiveStatus reports offline for an entry that claims to be online
// but whose heartbeat is older than staleAfter. The Registry's stored
// document is never rewritten by this: only the value handed to callers
// is corrected.
func effectiveStatus(e ProviderEntry, now int64, staleAfter time.Duration) Status {
	if e.Status == StatusOnline && staleAfter > 0 && now-e.LastHeartbeat > staleAfter.Milliseconds() {
		return StatusOffline
	}
	return e.Status
}

// Subscribe attaches to name's channel and starts its watch task. It is
// idempotent: subscribing to an already-subscribed name is a no-op that
// returns success. Attachment succeeding does not imply the provider is
// online — the channel may exist without a publisher.
func (s *Subscriber) Subscribe(name string) error {
	if !s.running.Load() {
		return ErrNotInitialized
	}
	s.subMu.Lock()
	if _, ok := s.subs[name]; ok {
		s.subMu.Unlock()
		return nil
	}
	s.subMu.Unlock()

	mode := s.cfg.GlobalNamespace.toInternal()
	region, err := shm.AttachRegion(s.logger, shm.ProviderChannelName(name), s.cfg.capacity(), mode, s.cfg.namespaceRoot)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}
	sy, err := shm.AttachSync(s.logger, name, mode, s.cfg.namespaceRoot)
	if err != nil {
		region.Close()
		return fmt.Errorf("subscribe %s: %w", name, err)
	}

	sub := &subscription{
		name:   name,
		region: region,
		sync:   sy,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	s.subMu.Lock()
	if _, ok := s.subs[name]; ok {
		// Lost a race with a concurrent Subscribe(name); keep the winner.
		s.subMu.Unlock()
		sy.Close()
		region.Close()
		return nil
	}
	s.subs[name] = sub
	s.subMu.Unlock()

	go s.watch(sub)
	return nil
}

func (s *Subscriber) watch(sub *subscription) {
	defer close(sub.done)
	for {
		select {
		case <-sub.stop:
			return
		default:
		}

		signaled, err := sub.sync.WaitSignal(watchPollInterval)
		if err != nil || !signaled {
			continue
		}

		select {
		case <-sub.stop:
			return
		default:
		}

		if err := sub.sync.Lock(watchPollInterval); err != nil {
			continue
		}
		raw, readErr := sub.region.Read()
		sub.sync.Unlock()
		if readErr != nil || raw == nil {
			continue
		}
		doc, decErr := decodeDocument(raw)
		if decErr != nil {
			// Swallowed: a partially written or corrupt region
			// becomes visible again on the next pulse.
			continue
		}

		s.callbackMu.Lock()
		handler := s.dataHandler
		s.callbackMu.Unlock()
		if handler != nil {
			handler(sub.name, doc)
		}
	}
}

// Unsubscribe stops the watch task, joins it, and detaches the
// per-subscription handles. Unsubscribing an unknown name returns
// ErrNotFound.
func (s *Subscriber) Unsubscribe(name string) error {
	s.subMu.Lock()
	sub, ok := s.subs[name]
	if ok {
		delete(s.subs, name)
	}
	s.subMu.Unlock()
	if !ok {
		return ErrNotFound
	}

	close(sub.stop)
	<-sub.done
	return multierr.Combine(sub.sync.Close(), sub.region.Close())
}

// Subscriptions returns the names currently subscribed to.
func (s *Subscriber) Subscriptions() []string {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]string, 0, len(s.subs))
	for name := range s.subs {
		out = append(out, name)
	}
	return out
}

// AvailableProviders lists every known provider with its effective
// status (stale online entries reported as offline).
func (s *Subscriber) AvailableProviders() ([]ProviderEntry, error) {
	if !s.running.Load() {
		return nil, ErrNotInitialized
	}
	entries, err := s.registry.List()
	if err != nil {
		return nil, err
	}
	now := nowMillis()
	out := entries[:0]
	for _, e := range entries {
		e.Status = effectiveStatus(e, now, s.StaleAfter)
		out = append(out, e)
	}
	return out, nil
}

// AvailableProvidersWithCapability filters AvailableProviders to entries
// declaring cap among their capabilities.
func (s *Subscriber) AvailableProvidersWithCapability(cap string) ([]ProviderEntry, error) {
	entries, err := s.AvailableProviders()
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		for _, c := range e.Capabilities {
			if c == cap {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// SetDataHandler installs fn to be invoked once per pulse any
// subscription observes. A later call replaces the previous handler.
func (s *Subscriber) SetDataHandler(fn DataHandler) {
	s.callbackMu.Lock()
	s.dataHandler = fn
	s.callbackMu.Unlock()
}

// SetStatusHandler installs fn to be invoked for each entry on every
// observed registry change.
func (s *Subscriber) SetStatusHandler(fn StatusHandler) {
	s.callbackMu.Lock()
	s.statusHandler = fn
	s.callbackMu.Unlock()
}

// Shutdown stops every subscription's watch task and the registry
// watcher, and detaches every handle this Subscriber owns. No callback
// is invoked after Shutdown returns.
func (s *Subscriber) Shutdown() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.subMu.Lock()
	subs := s.subs
	s.subs = make(map[string]*subscription)
	s.subMu.Unlock()

	for _, sub := range subs {
		close(sub.stop)
	}
	var err error
	for _, sub := range subs {
		<-sub.done
		err = multierr.Append(err, sub.sync.Close())
		err = multierr.Append(err, sub.region.Close())
	}
	if s.registry != nil {
		err = multierr.Append(err, s.registry.Shutdown())
	}
	return err
}
