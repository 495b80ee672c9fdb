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

// encodeRegistry and decodeRegistry convert between the in-memory entry
// map and the Document form of the registry document schema:
//
//	{ "<name>": { "status", "description", "capabilities",
//	              "lastUpdate", "lastHeartbeat" }, ... }
//
// Missing fields decode to the documented defaults; unknown status
// strings decode as offline.

func encodeRegistry(entries map[string]ProviderEntry) ([]byte, error) {
	fields := make(map[string]Document, len(entries))
	for name, e := range entries {
		caps := make([]Document, len(e.Capabilities))
		for i, c := range e.Capabilities {
			caps[i] = NewString(c)
		}
		fields[name] = NewObject(map[string]Document{
			"status":        NewString(e.Status.String()),
			"description":   NewString(e.Description),
			"capabilities":  NewArray(caps),
			"lastUpdate":    NewInt(e.LastUpdate),
			"lastHeartbeat": NewInt(e.LastHeartbeat),
		})
	}
	return encodeDocument(NewObject(fields))
}

func decodeRegistry(raw []byte) (map[string]ProviderEntry, error) {
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != KindObject {
		return nil, ErrDecode
	}
	entries := make(map[string]ProviderEntry, len(doc.Object()))
	for name, v := range doc.Object() {
		entries[name] = decodeProviderEntry(name, v)
	}
	return entries, nil
}

func decodeProviderEntry(name string, v Document) ProviderEntry {
	e := ProviderEntry{Name: name}
	if v.Kind() != KindObject {
		return e
	}
	fields := v.Object()
	if s, ok := fields["status"]; ok && s.Kind() == KindString {
		e.Status = parseStatus(s.String())
	}
	if d, ok := fields["description"]; ok && d.Kind() == KindString {
		e.Description = d.String()
	}
	if c, ok := fields["capabilities"]; ok && c.Kind() == KindArray {
		caps := make([]string, 0, len(c.Array()))
		for _, item := range c.Array() {
			if item.Kind() == KindString {
				caps = append(caps, item.String())
			}
		}
		e.Capabilities = caps
	}
	if u, ok := fields["lastUpdate"]; ok && u.Kind() == KindInt {
		e.LastUpdate = u.Int()
	}
	if h, ok := fields["lastHeartbeat"]; ok && h.Kind() == KindInt {
		e.LastHeartbeat = h.Int()
	}
	return e
}
