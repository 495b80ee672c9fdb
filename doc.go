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

// Package sharingway is a local, single-host publish/subscribe system for
// structured data exchanged between independently started processes on the
// same machine.
//
// A Provider writes a most-recent-value snapshot of a document into a named
// shared-memory channel; one or more Subscribers attach to that channel and
// are notified when it changes. A process-wide Registry tracks which
// providers exist, their declared capabilities, and their liveness, so a
// Subscriber can discover what is available without prior configuration.
//
// The package carries no history: a channel holds exactly one current
// snapshot, overwritten in place. It is not durable across reboots, does
// not authenticate or encrypt, and never leaves the local machine.
package sharingway
