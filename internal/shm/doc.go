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

// Package shm provides the shared-memory IPC substrate Sharingway is built
// on: a named, fixed-size memory-mapped region with length-prefixed
// document storage, and a pair of OS-backed synchronization primitives (a
// cross-process mutex and an edge-triggered auto-reset signal) keyed by a
// base name.
//
// Every type here is process-local plumbing; the public API lives in the
// parent package.
package shm
