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

import "errors"

// Error kinds at the shared-memory substrate layer. The parent package
// re-exports these under its own names.
var (
	ErrUnavailable = errors.New("shm: resource could not be attached or created")
	ErrLocked      = errors.New("shm: lock acquisition timed out")
	ErrOversize    = errors.New("shm: document exceeds region capacity")
	ErrDecode      = errors.New("shm: corrupt or undecodable region contents")
	ErrDetached    = errors.New("shm: handle is detached")
	ErrUnsupported = errors.New("shm: unsupported on this platform")
)
