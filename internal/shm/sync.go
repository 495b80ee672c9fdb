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
	"sync/atomic"
	"time"
	"unsafe"

	"go.uber.org/zap"
)

// syncRegionSize is one page; the lock word lives at offset 0 and the
// signal generation word at offset 4. The rest is unused padding so the
// backing file always satisfies the OS's page-granular mmap requirement.
const syncRegionSize = 4096

// Sync is a pair of OS-backed synchronization primitives keyed by a base
// name: a cross-process mutex and an edge-triggered, auto-reset signal.
// Both are implemented with Linux futexes directly on
// words inside a small shared mapping, rather than as two separate kernel
// objects, since both share a lifetime and an attacher always wants both.
type Sync struct {
	base   string
	path   string
	file   *os.File
	mem    []byte
	logger *zap.Logger
}

// AttachSync opens or creates the named synchronization pair for base.
func AttachSync(logger *zap.Logger, base string, mode NamespaceMode, root string) (*Sync, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dirs, err := candidateDirs(mode, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fileName := sanitizeName(namePrefix+base) + ".sync"
	var lastErr error
	for _, dir := range dirs {
		path := filepath.Join(dir, fileName)
		s, err := attachSyncAt(logger, base, path)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func attachSyncAt(logger *zap.Logger, base, path string) (*Sync, error) {
	file, _, err := openOrCreate(path, syncRegionSize)
	if err != nil {
		return nil, err
	}
	mem, err := mmapFile(file, syncRegionSize)
	if err != nil {
		file.Close()
		return nil, err
	}
	logger.Debug("sync attached", zap.String("component", "namedsync"), zap.String("base", base), zap.String("path", path))
	return &Sync{base: base, path: path, file: file, mem: mem, logger: logger}, nil
}

func (s *Sync) lockWord() *uint32 { return (*uint32)(unsafe.Pointer(&s.mem[0])) }
func (s *Sync) genWord() *uint32  { return (*uint32)(unsafe.Pointer(&s.mem[4])) }

// Lock blocks up to timeout (0 meaning unbounded) for exclusive
// cross-process access. Every successful Lock must be paired with Unlock on
// every code path, including error paths.
func (s *Sync) Lock(timeout time.Duration) error {
	if s.mem == nil {
		return ErrDetached
	}
	word := s.lockWord()
	if atomic.CompareAndSwapUint32(word, 0, 1) {
		return nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		// Mark the lock contended and try to take it; this also covers the
		// case where it was free, trading a slightly pessimistic unlock
		// (one extra wake, harmless when nobody is parked) for a simpler
		// acquisition path.
		if atomic.SwapUint32(word, 2) == 0 {
			return nil
		}
		var wait time.Duration
		if !deadline.IsZero() {
			wait = time.Until(deadline)
			if wait <= 0 {
				return ErrLocked
			}
		}
		if err := futexWait(word, 2, wait); err != nil {
			if err == ErrFutexTimeout {
				return ErrLocked
			}
			return err
		}
	}
}

// Unlock releases the lock acquired by Lock.
func (s *Sync) Unlock() {
	if s.mem == nil {
		return
	}
	word := s.lockWord()
	if old := atomic.SwapUint32(word, 0); old == 2 {
		futexWake(word, 1)
	}
}

// Pulse wakes exactly one waiter blocked in WaitSignal, or is a no-op if
// none is parked. It never queues: a waiter that begins waiting after the
// pulse observes nothing from it.
func (s *Sync) Pulse() {
	if s.mem == nil {
		return
	}
	word := s.genWord()
	atomic.AddUint32(word, 1)
	futexWake(word, 1)
}

// WaitSignal blocks up to timeout for a Pulse. A true return is only a
// hint: callers must re-check the state the signal protects themselves,
// since pulses that land before WaitSignal is called are never observed.
func (s *Sync) WaitSignal(timeout time.Duration) (bool, error) {
	if s.mem == nil {
		return false, ErrDetached
	}
	word := s.genWord()
	before := atomic.LoadUint32(word)
	deadline := time.Now().Add(timeout)
	// futexWait also returns on spurious wakeups (EINTR, EAGAIN), so only
	// a change of the generation word counts as a pulse.
	for atomic.LoadUint32(word) == before {
		var wait time.Duration
		if timeout > 0 {
			wait = time.Until(deadline)
			if wait <= 0 {
				return false, nil
			}
		}
		if err := futexWait(word, before, wait); err != nil && err != ErrFutexTimeout {
			return false, err
		}
	}
	return true, nil
}

// Close unmaps and closes the backing handle.
func (s *Sync) Close() error {
	if s.mem == nil {
		return nil
	}
	err := munmapFile(s.mem)
	s.mem = nil
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
