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
	"errors"

	"github.com/gposingway/sharingway/internal/shm"
)

// Error kinds from the error handling design. All are safe to compare with
// errors.Is.
var (
	// ErrUnavailable means a resource could not be attached or created.
	ErrUnavailable = shm.ErrUnavailable
	// ErrLocked means a lock acquisition timed out.
	ErrLocked = shm.ErrLocked
	// ErrOversize means a document exceeds its channel's capacity.
	ErrOversize = shm.ErrOversize
	// ErrEncode means a document could not be serialized.
	ErrEncode = errors.New("sharingway: document could not be encoded")
	// ErrDecode means a region's contents could not be decoded.
	ErrDecode = shm.ErrDecode
	// ErrNotFound means no such registry entry exists.
	ErrNotFound = errors.New("sharingway: no such entry")
	// ErrNotInitialized means the operation was attempted before
	// initialize or after shutdown.
	ErrNotInitialized = errors.New("sharingway: not initialized")
)
