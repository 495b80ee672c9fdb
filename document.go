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
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the variant held by a Document.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Document is a recursive tagged variant over the JSON-shaped values a
// channel can carry: null, bool, int, float, string, array, or object. The
// native Go representation never crosses the package boundary; callers
// build and inspect a Document only through the constructors and accessors
// below.
type Document struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Document
	obj  map[string]Document
}

func NewNull() Document               { return Document{kind: KindNull} }
func NewBool(v bool) Document         { return Document{kind: KindBool, b: v} }
func NewInt(v int64) Document         { return Document{kind: KindInt, i: v} }
func NewFloat(v float64) Document     { return Document{kind: KindFloat, f: v} }
func NewString(v string) Document     { return Document{kind: KindString, s: v} }
func NewArray(v []Document) Document  { return Document{kind: KindArray, arr: v} }
func NewObject(v map[string]Document) Document {
	return Document{kind: KindObject, obj: v}
}

// Kind reports which variant d holds.
func (d Document) Kind() Kind { return d.kind }

// Bool returns the held value if Kind() == KindBool, else false.
func (d Document) Bool() bool { return d.b }

// Int returns the held value if Kind() == KindInt, else 0.
func (d Document) Int() int64 { return d.i }

// Float returns the held value if Kind() == KindFloat, else 0.
func (d Document) Float() float64 { return d.f }

// String returns the held value if Kind() == KindString, else "".
func (d Document) String() string { return d.s }

// Array returns the held elements if Kind() == KindArray, else nil.
func (d Document) Array() []Document { return d.arr }

// Object returns the held fields if Kind() == KindObject, else nil.
func (d Document) Object() map[string]Document { return d.obj }

// FromValue builds a Document from a Go value: nil, bool, int, int64,
// float64, string, a []any of such values, or a map[string]any of such
// values. It is a convenience for callers constructing literals; any other
// type (other integer or float widths, typed slices or maps, structs) is
// rejected with ErrEncode.
func FromValue(v any) (Document, error) {
	switch t := v.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case float64:
		return NewFloat(t), nil
	case string:
		return NewString(t), nil
	case []any:
		out := make([]Document, len(t))
		for i, e := range t {
			d, err := FromValue(e)
			if err != nil {
				return Document{}, err
			}
			out[i] = d
		}
		return NewArray(out), nil
	case map[string]any:
		out := make(map[string]Document, len(t))
		for k, e := range t {
			d, err := FromValue(e)
			if err != nil {
				return Document{}, err
			}
			out[k] = d
		}
		return NewObject(out), nil
	default:
		return Document{}, fmt.Errorf("%w: unsupported value type %T", ErrEncode, v)
	}
}

func (d Document) toAny() any {
	switch d.kind {
	case KindNull:
		return nil
	case KindBool:
		return d.b
	case KindInt:
		return d.i
	case KindFloat:
		return d.f
	case KindString:
		return d.s
	case KindArray:
		out := make([]any, len(d.arr))
		for i, e := range d.arr {
			out[i] = e.toAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(d.obj))
		for k, e := range d.obj {
			out[k] = e.toAny()
		}
		return out
	default:
		return nil
	}
}

func fromAny(v any) Document {
	switch t := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInt(i)
		}
		f, _ := t.Float64()
		return NewFloat(f)
	case string:
		return NewString(t)
	case []any:
		out := make([]Document, len(t))
		for i, e := range t {
			out[i] = fromAny(e)
		}
		return NewArray(out)
	case map[string]any:
		out := make(map[string]Document, len(t))
		for k, e := range t {
			out[k] = fromAny(e)
		}
		return NewObject(out)
	default:
		return NewNull()
	}
}

// encodeDocument serializes d to the compact UTF-8 text form the on-wire
// format carries: no trailing newline, no indentation.
func encodeDocument(d Document) ([]byte, error) {
	b, err := json.Marshal(d.toAny())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b, nil
}

// decodeDocument parses the on-wire text form of a Document. It uses
// json.Decoder.UseNumber so that an integer literal decodes as KindInt
// rather than always widening to KindFloat.
func decodeDocument(b []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return fromAny(v), nil
}

// Equal reports whether a and b are structurally equal: same kind, and for
// composite kinds, recursively equal elements/fields (objects compared
// without regard to field order).
func Equal(a, b Document) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
