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

	"github.com/stretchr/testify/require"
)

func TestProviderPublishBeforeInitializeFails(t *testing.T) {
	p, err := NewProvider("Sensor1", "", nil, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { p.Shutdown() })

	if err := p.Publish(NewInt(1)); err != ErrNotInitialized {
		t.Fatalf("Publish before Initialize = %v, want ErrNotInitialized", err)
	}
}

func TestProviderPublishAndIsOnline(t *testing.T) {
	p, err := NewProvider("Sensor1", "a sensor", []string{"x"}, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { p.Shutdown() })

	require.NoError(t, p.Initialize())
	require.True(t, p.IsOnline())
	require.Equal(t, "Sensor1", p.Name())

	require.NoError(t, p.Publish(NewObject(map[string]Document{"counter": NewInt(1)})))
}

func TestProviderShutdownWritesEmptySentinelAndGoesOffline(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewProvider("Sensor1", "", nil, cfg)
	require.NoError(t, err)
	require.NoError(t, p.Initialize())
	require.NoError(t, p.Publish(NewInt(42)))

	require.NoError(t, p.Shutdown())
	require.False(t, p.IsOnline())

	if err := p.Publish(NewInt(1)); err != ErrNotInitialized {
		t.Fatalf("Publish after Shutdown = %v, want ErrNotInitialized", err)
	}

	snap, err := InspectChannel("Sensor1", cfg)
	require.NoError(t, err)
	require.True(t, snap.HasValue)
	require.Equal(t, KindObject, snap.Document.Kind())
	require.Empty(t, snap.Document.Object())

	r := NewRegistry(cfg)
	require.NoError(t, r.Initialize())
	t.Cleanup(func() { r.Shutdown() })

	entries, err := r.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, StatusOffline, entries[0].Status)
}

func TestProviderPublishOversizeLeavesPriorSnapshot(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewProvider("Sensor1", "", nil, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { p.Shutdown() })
	// Only the channel is sized down; the registry keeps cfg's capacity.
	require.NoError(t, p.Initialize(16))

	require.NoError(t, p.Publish(NewInt(1)))

	huge := make([]Document, 20)
	for i := range huge {
		huge[i] = NewString("padding-padding-padding")
	}
	if err := p.Publish(NewArray(huge)); err != ErrOversize {
		t.Fatalf("Publish(oversize) = %v, want ErrOversize", err)
	}

	snap, err := InspectChannel("Sensor1", cfg)
	require.NoError(t, err)
	require.True(t, snap.HasValue)
	require.Equal(t, int64(1), snap.Document.Int())
}
