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
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexOpWait = 0 // FUTEX_WAIT
	futexOpWake = 1 // FUTEX_WAKE
)

// futexWait blocks while *addr == val, for up to timeout (0 meaning
// unbounded). Callers must only call this when they have just observed
// *addr == val; the kernel re-checks atomically to close the race between
// that observation and entering the wait. addr lives in a MAP_SHARED
// mapping, so the plain (non-private) futex ops are used: the kernel keys
// the wait queue off the backing page, letting a wake issued by a
// different process reach a waiter parked here.
//
// Spurious wakeups (EAGAIN, EINTR) are folded into a plain nil return;
// callers are expected to re-check the condition themselves regardless.
func futexWait(addr *uint32, val uint32, timeout time.Duration) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}

	var tsPtr uintptr
	if timeout > 0 {
		ts := unix.NsecToTimespec(timeout.Nanoseconds())
		tsPtr = uintptr(unsafe.Pointer(&ts))
	}

	_, _, errno := unix.RawSyscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexOpWait,
		uintptr(val),
		tsPtr,
		0,
		0,
	)
	return classifyFutexErrno(errno)
}

// futexWake wakes up to n waiters blocked in futexWait on addr, including
// waiters parked in a different process mapping the same page.
func futexWake(addr *uint32, n int) error {
	_, _, errno := unix.RawSyscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexOpWake,
		uintptr(n),
		0,
		0,
		0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

func classifyFutexErrno(errno unix.Errno) error {
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return nil
	case unix.ETIMEDOUT:
		return ErrFutexTimeout
	default:
		return errno
	}
}
