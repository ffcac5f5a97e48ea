package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// MaxDepth bounds the nesting accepted by Parse.
const MaxDepth = 256

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindEnvelope
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// Value is a node of a form data tree. It is a closed sum type: the only implementations are
// *Object, Array, String, Number, Bool, Null and Envelope.
type Value interface {
	json.Marshaler
	Kind() Kind
	isValue()
}

// Object is a JSON object that remembers the insertion order of its keys so a transformed
// tree serializes in the same order as its input.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{fields: map[string]Value{}}
}

// Set stores v under key. A key set twice keeps its original position. A nil v is stored as
// Null. Set returns the receiver so literals can be chained.
func (o *Object) Set(key string, v Value) *Object {
	if o.fields == nil {
		o.fields = map[string]Value{}
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Kind() Kind { return KindObject }
func (o *Object) isValue()   {}

// MarshalJSON writes the object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.fields[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is a JSON array.
type Array []Value

func (a Array) Kind() Kind { return KindArray }
func (a Array) isValue()   {}

// MarshalJSON writes the array; a nil Array is written as an empty array.
func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}

// String is a JSON string leaf.
type String string

func (s String) Kind() Kind { return KindString }
func (s String) isValue()   {}

// MarshalJSON writes the string.
func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(string(s)) }

// Number is a JSON number leaf kept as its literal text so it round-trips exactly.
type Number string

func (n Number) Kind() Kind { return KindNumber }
func (n Number) isValue()   {}

// MarshalJSON writes the number literal.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" || (n[0] != '-' && (n[0] < '0' || n[0] > '9')) || !json.Valid([]byte(n)) {
		return nil, fmt.Errorf("invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// Bool is a JSON boolean leaf.
type Bool bool

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) isValue()   {}

// MarshalJSON writes the boolean.
func (b Bool) MarshalJSON() ([]byte, error) { return json.Marshal(bool(b)) }

// Null is the JSON null leaf.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) isValue()   {}

// MarshalJSON writes null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Parse decodes a JSON document into a Value tree, preserving object key order and number
// literals. Objects carrying the encrypted envelope keys are decoded as Envelope.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormData, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidFormData)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("nesting exceeds %d levels", MaxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return envelopeOrObject(obj), nil
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// FromAny converts the output of encoding/json (or equivalent hand-built maps and slices)
// into a Value tree. Map keys are visited in sorted order because Go maps carry none.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			child, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, child)
		}
		return envelopeOrObject(obj), nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return FromAny(m)
	case []any:
		arr := make(Array, 0, len(t))
		for _, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		return arr, nil
	case []string:
		arr := make(Array, 0, len(t))
		for _, s := range t {
			arr = append(arr, String(s))
		}
		return arr, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case int:
		return Number(strconv.Itoa(t)), nil
	case int32:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidFormData, v)
	}
}

// ToAny converts a Value tree into plain Go maps, slices and scalars. Numbers become
// json.Number and envelopes become their wire-format map.
func ToAny(v Value) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = ToAny(t.fields[k])
		}
		return out
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToAny(item)
		}
		return out
	case String:
		return string(t)
	case Number:
		return json.Number(t)
	case Bool:
		return bool(t)
	case Envelope:
		if t.source != nil {
			return ToAny(t.source)
		}
		return map[string]any{
			envelopeEncryptedKey: t.Encrypted,
			envelopeIVKey:        t.IV,
			envelopeMarkerKey:    true,
		}
	default:
		return nil
	}
}

// CountEnvelopes returns the number of Envelope leaves in the tree.
func CountEnvelopes(v Value) int {
	switch t := v.(type) {
	case Envelope:
		return 1
	case *Object:
		if t == nil {
			return 0
		}
		n := 0
		for _, k := range t.keys {
			n += CountEnvelopes(t.fields[k])
		}
		return n
	case Array:
		n := 0
		for _, item := range t {
			n += CountEnvelopes(item)
		}
		return n
	default:
		return 0
	}
}

// CountSealed returns the number of string leaves in before that are envelopes at the same
// position in after. Envelopes already present in before are not counted.
func CountSealed(before, after Value) int {
	switch a := after.(type) {
	case Envelope:
		if _, ok := before.(String); ok {
			return 1
		}
		return 0
	case *Object:
		b, ok := before.(*Object)
		if !ok || a == nil || b == nil {
			return 0
		}
		n := 0
		for _, k := range a.keys {
			n += CountSealed(b.fields[k], a.fields[k])
		}
		return n
	case Array:
		b, ok := before.(Array)
		if !ok {
			return 0
		}
		n := 0
		for i := 0; i < len(a) && i < len(b); i++ {
			n += CountSealed(b[i], a[i])
		}
		return n
	default:
		return 0
	}
}
