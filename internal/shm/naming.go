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

// Logical naming conventions for region and sync objects. The "<P>"
// global-namespace prefix is realized here as a choice of backing
// directory (see namespace.go) rather than a literal string prefix, since
// POSIX has no equivalent of Windows' "Global\" kernel namespace.
const namePrefix = "Sharingway."

// RegistryRegionName is the well-known name of the registry's backing
// region.
func RegistryRegionName() string { return namePrefix + "Registry" }

// ProviderChannelName is the name of a provider's own snapshot channel
// region.
func ProviderChannelName(provider string) string { return namePrefix + provider }

// RegistrySyncBase is the NamedSync base name the registry uses.
const RegistrySyncBase = "Registry"
