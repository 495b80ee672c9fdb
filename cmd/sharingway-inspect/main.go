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

// sharingway-inspect dumps the raw header state of a provider's channel
// or the registry, for troubleshooting a running Sharingway system from
// the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gposingway/sharingway"
)

func main() {
	provider := flag.String("provider", "", "provider name to inspect (omit to dump the registry)")
	capacity := flag.Int("capacity", sharingway.DefaultCapacity, "capacity to request if the channel does not already exist")
	flag.Parse()

	cfg := sharingway.DefaultConfig()
	cfg.DefaultCapacity = *capacity

	if *provider == "" {
		dumpRegistry(cfg)
		return
	}
	dumpChannel(*provider, cfg)
}

func dumpRegistry(cfg sharingway.Config) {
	r := sharingway.NewRegistry(cfg)
	if err := r.Initialize(); err != nil {
		log.Fatalf("registry initialize: %v", err)
	}
	defer r.Shutdown()

	entries, err := r.List()
	if err != nil {
		log.Fatalf("registry list: %v", err)
	}

	now := time.Now().UnixMilli()
	fmt.Printf("=== Registry (%d entries) ===\n", len(entries))
	for _, e := range entries {
		fmt.Printf("%-24s status=%-8s heartbeat_age=%dms capabilities=%v\n",
			e.Name, e.Status, now-e.LastHeartbeat, e.Capabilities)
	}
}

func dumpChannel(name string, cfg sharingway.Config) {
	snap, err := sharingway.InspectChannel(name, cfg)
	if err != nil {
		log.Fatalf("inspect %s: %v", name, err)
	}

	fmt.Printf("=== Channel %s ===\n", snap.RegionName)
	fmt.Printf("capacity: %d bytes\n", snap.Capacity)
	if !snap.HasValue {
		fmt.Println("no document currently published")
		return
	}
	fmt.Printf("document kind: %s\n", snap.Document.Kind())
}
