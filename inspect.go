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
	"time"

	"github.com/gposingway/sharingway/internal/shm"
)

// ChannelSnapshot is the raw state cmd/sharingway-inspect reports for one
// channel: the region's capacity, whether a document is currently
// published, and the decoded document if so.
type ChannelSnapshot struct {
	RegionName string
	Capacity   int
	HasValue   bool
	Document   Document
}

// InspectChannel attaches to name's channel just long enough to read its
// current raw state, then detaches. It takes the channel's lock with a
// short timeout rather than joining a watch loop, since it exists purely
// for point-in-time troubleshooting, not for ongoing subscription.
func InspectChannel(name string, cfg Config) (ChannelSnapshot, error) {
	mode := cfg.GlobalNamespace.toInternal()
	region, err := shm.AttachRegion(cfg.logger(), shm.ProviderChannelName(name), cfg.capacity(), mode, cfg.namespaceRoot)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	defer region.Close()

	sy, err := shm.AttachSync(cfg.logger(), name, mode, cfg.namespaceRoot)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	defer sy.Close()

	snap := ChannelSnapshot{RegionName: shm.ProviderChannelName(name), Capacity: region.Capacity()}

	if err := sy.Lock(time.Second); err != nil {
		return snap, ErrLocked
	}
	raw, readErr := region.Read()
	sy.Unlock()
	if readErr != nil {
		return snap, readErr
	}
	if raw == nil {
		return snap, nil
	}
	doc, decErr := decodeDocument(raw)
	if decErr != nil {
		return snap, decErr
	}
	snap.HasValue = true
	snap.Document = doc
	return snap, nil
}
