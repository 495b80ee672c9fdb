//go:build linux && (amd64 || arm64)

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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestSubscriber builds an initialized Subscriber on cfg, so that it
// shares cfg's namespace with any Provider built on the same cfg.
func newTestSubscriber(t *testing.T, cfg Config) *Subscriber {
	t.Helper()
	s := NewSubscriber(cfg)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func TestSubscriberSubscribeIsIdempotent(t *testing.T) {
	s := newTestSubscriber(t, testConfig(t))
	require.NoError(t, s.Subscribe("Sensor1"))
	require.NoError(t, s.Subscribe("Sensor1"))
	require.Equal(t, []string{"Sensor1"}, s.Subscriptions())
}

func TestSubscriberUnsubscribeUnknownFails(t *testing.T) {
	s := newTestSubscriber(t, testConfig(t))
	if err := s.Unsubscribe("nope"); err != ErrNotFound {
		t.Fatalf("Unsubscribe(unknown) = %v, want ErrNotFound", err)
	}
}

func TestSubscriberReceivesPublishedDocument(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewProvider("Sensor1", "", nil, cfg)
	require.NoError(t, err)
	require.NoError(t, p.Initialize())
	t.Cleanup(func() { p.Shutdown() })

	s := newTestSubscriber(t, cfg)
	received := make(chan Document, 4)
	s.SetDataHandler(func(name string, doc Document) {
		if name == "Sensor1" {
			received <- doc
		}
	})
	require.NoError(t, s.Subscribe("Sensor1"))

	require.NoError(t, p.Publish(NewObject(map[string]Document{"counter": NewInt(1)})))

	select {
	case doc := <-received:
		require.Equal(t, int64(1), doc.Object()["counter"].Int())
	case <-time.After(2 * time.Second):
		t.Fatalf("data handler was never invoked")
	}
}

func TestSubscriberShutdownStopsCallbacks(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewProvider("Sensor1", "", nil, cfg)
	require.NoError(t, err)
	require.NoError(t, p.Initialize())
	t.Cleanup(func() { p.Shutdown() })

	s := NewSubscriber(cfg)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Subscribe("Sensor1"))

	var calls int
	s.SetDataHandler(func(string, Document) { calls++ })

	require.NoError(t, s.Shutdown())
	require.NoError(t, p.Publish(NewInt(99)))

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, calls)
}

func TestEffectiveStatusMarksStaleOnlineAsOffline(t *testing.T) {
	now := nowMillis()
	e := ProviderEntry{Status: StatusOnline, LastHeartbeat: now - 20_000}
	if got := effectiveStatus(e, now, 10*time.Second); got != StatusOffline {
		t.Fatalf("effectiveStatus = %v, want StatusOffline", got)
	}
}

func TestEffectiveStatusLeavesFreshOnlineAlone(t *testing.T) {
	now := nowMillis()
	e := ProviderEntry{Status: StatusOnline, LastHeartbeat: now - 1_000}
	if got := effectiveStatus(e, now, 10*time.Second); got != StatusOnline {
		t.Fatalf("effectiveStatus = %v, want StatusOnline", got)
	}
}

func TestAvailableProvidersWithCapabilityFilters(t *testing.T) {
	cfg := testConfig(t)
	p1, err := NewProvider("Sensor1", "", []string{"temperature"}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { p1.Shutdown() })
	p2, err := NewProvider("Sensor2", "", []string{"humidity"}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { p2.Shutdown() })

	s := newTestSubscriber(t, cfg)
	entries, err := s.AvailableProvidersWithCapability("temperature")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Sensor1", entries[0].Name)
}
