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

import "testing"

func TestDocumentRoundTrip(t *testing.T) {
	cases := []Document{
		NewNull(),
		NewBool(true),
		NewInt(42),
		NewFloat(3.5),
		NewString("hello"),
		NewArray([]Document{NewInt(1), NewString("two"), NewBool(false)}),
		NewObject(map[string]Document{
			"counter": NewInt(1),
			"label":   NewString("sensor"),
			"nested":  NewObject(map[string]Document{"ok": NewBool(true)}),
		}),
	}

	for _, d := range cases {
		encoded, err := encodeDocument(d)
		if err != nil {
			t.Fatalf("encodeDocument(%v) failed: %v", d.Kind(), err)
		}
		decoded, err := decodeDocument(encoded)
		if err != nil {
			t.Fatalf("decodeDocument(%q) failed: %v", encoded, err)
		}
		if !Equal(d, decoded) {
			t.Fatalf("round trip of %v: got %v, want %v", d.Kind(), decoded, d)
		}
	}
}

func TestDocumentIntSurvivesAsInt(t *testing.T) {
	encoded, err := encodeDocument(NewInt(7))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := decodeDocument(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Kind() != KindInt {
		t.Fatalf("decoded.Kind() = %v, want KindInt", decoded.Kind())
	}
	if decoded.Int() != 7 {
		t.Fatalf("decoded.Int() = %d, want 7", decoded.Int())
	}
}

func TestDocumentUnknownFieldsPreservedOnDecode(t *testing.T) {
	decoded, err := decodeDocument([]byte(`{"counter":1,"extra":"kept"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := NewObject(map[string]Document{
		"counter": NewInt(1),
		"extra":   NewString("kept"),
	})
	if !Equal(decoded, want) {
		t.Fatalf("decoded = %v, want %v", decoded, want)
	}
}

func TestEqualDistinguishesKind(t *testing.T) {
	if Equal(NewInt(0), NewBool(false)) {
		t.Fatalf("Equal(0, false) = true, want false")
	}
	if Equal(NewNull(), NewInt(0)) {
		t.Fatalf("Equal(null, 0) = true, want false")
	}
}

func TestFromValue(t *testing.T) {
	d, err := FromValue(map[string]any{
		"counter": 1,
		"tags":    []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("FromValue failed: %v", err)
	}
	if d.Kind() != KindObject {
		t.Fatalf("Kind() = %v, want KindObject", d.Kind())
	}
	if d.Object()["counter"].Int() != 1 {
		t.Fatalf("counter = %d, want 1", d.Object()["counter"].Int())
	}
}
