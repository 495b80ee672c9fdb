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

import "testing"

func TestRegistryRegionName(t *testing.T) {
	if got, want := RegistryRegionName(), "Sharingway.Registry"; got != want {
		t.Fatalf("RegistryRegionName() = %q, want %q", got, want)
	}
}

func TestProviderChannelName(t *testing.T) {
	if got, want := ProviderChannelName("Sensor1"), "Sharingway.Sensor1"; got != want {
		t.Fatalf("ProviderChannelName() = %q, want %q", got, want)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Sharingway.Sensor1": "Sharingway.Sensor1",
		"has/slash":          "has_slash",
		"has\\backslash":     "has_backslash",
		"spaces here":        "spaces_here",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
