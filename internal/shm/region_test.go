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

package shm

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

// attachTestRegion attaches a region under a unique name and registers
// cleanup.
func attachTestRegion(t *testing.T, capacity int) *Region {
	t.Helper()
	name := fmt.Sprintf("test-region-%s-%d", t.Name(), time.Now().UnixNano())
	r, err := AttachRegion(zap.NewNop(), name, capacity, NamespaceDisable, "")
	if err != nil {
		t.Fatalf("AttachRegion failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRegionWriteReadRoundTrip(t *testing.T) {
	r := attachTestRegion(t, 1024)

	payload := []byte(`{"counter":1}`)
	if err := r.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("Read = %q, want %q", got, payload)
	}
}

func TestRegionReadBeforeAnyWriteIsNone(t *testing.T) {
	r := attachTestRegion(t, 1024)

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Read on a never-written region = %q, want nil", got)
	}
}

func TestRegionOversizeRejectedAndPriorSnapshotIntact(t *testing.T) {
	r := attachTestRegion(t, 16)

	first := []byte(`{"a":1}`)
	if err := r.Write(first); err != nil {
		t.Fatalf("Write(first) failed: %v", err)
	}

	oversized := make([]byte, 64)
	if err := r.Write(oversized); err != ErrOversize {
		t.Fatalf("Write(oversized) = %v, want ErrOversize", err)
	}

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(first) {
		t.Fatalf("Read after rejected oversize write = %q, want unchanged %q", got, first)
	}
}

func TestRegionCapacityIsSharedAcrossAttachers(t *testing.T) {
	name := fmt.Sprintf("test-region-shared-%d", time.Now().UnixNano())

	first, err := AttachRegion(zap.NewNop(), name, 2048, NamespaceDisable, "")
	if err != nil {
		t.Fatalf("first AttachRegion failed: %v", err)
	}
	defer first.Close()

	// A later attacher requesting a different capacity receives the
	// existing one.
	second, err := AttachRegion(zap.NewNop(), name, 64, NamespaceDisable, "")
	if err != nil {
		t.Fatalf("second AttachRegion failed: %v", err)
	}
	defer second.Close()

	if second.Capacity() != first.Capacity() {
		t.Fatalf("second.Capacity() = %d, want %d", second.Capacity(), first.Capacity())
	}
}

func TestRegionDetachedOperationsFail(t *testing.T) {
	r := attachTestRegion(t, 1024)
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := r.Write([]byte("x")); err != ErrDetached {
		t.Fatalf("Write after Close = %v, want ErrDetached", err)
	}
	if _, err := r.Read(); err != ErrDetached {
		t.Fatalf("Read after Close = %v, want ErrDetached", err)
	}
}
