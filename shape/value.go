package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies which variant of the JSON tagged union a [Value] holds.
type Kind int

const (
	// KindNull is a JSON null.
	KindNull Kind = iota

	// KindBool is a JSON boolean.
	KindBool

	// KindNumber is a JSON number, kept in its original textual form.
	KindNumber

	// KindString is a JSON string.
	KindString

	// KindArray is a JSON array.
	KindArray

	// KindObject is a JSON object with members in document order.
	KindObject
)

// String returns a human-readable name for the kind.
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
	default:
		return "invalid"
	}
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Value is an order-preserving representation of a JSON document.
//
// Value is a tagged union: the Kind field selects which of the payload
// fields is meaningful. Consumers pattern-match on Kind explicitly rather
// than relying on type assertions against interface{} values.
//
// Unlike map[string]any, object members keep the order they appear in the
// source document. The flattening, normalization, and tabular-search
// heuristics all depend on that order for their tie-break behaviour.
type Value struct {
	// Kind selects the active variant.
	Kind Kind

	// Bool holds the value when Kind is KindBool.
	Bool bool

	// Num holds the value when Kind is KindNumber. json.Number preserves
	// the source representation so re-serialization is byte-faithful.
	Num json.Number

	// Str holds the value when Kind is KindString.
	Str string

	// Arr holds the elements when Kind is KindArray.
	Arr []Value

	// Obj holds the members, in document order, when Kind is KindObject.
	Obj []Member
}

// IsObject reports whether the value is a JSON object.
func (v Value) IsObject() bool { return v.Kind == KindObject }

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool { return v.Kind == KindArray }

// Get returns the value of the named object member.
//
// The second return is false if the value is not an object or has no member
// with that key. The first member wins if the document contained duplicates.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.Obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Object builds an object value from the given members.
func Object(members ...Member) Value {
	return Value{Kind: KindObject, Obj: members}
}

// Array builds an array value from the given elements.
func Array(elems ...Value) Value {
	return Value{Kind: KindArray, Arr: elems}
}

// String builds a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number builds a number value from its textual representation.
func Number(n string) Value { return Value{Kind: KindNumber, Num: json.Number(n)} }

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Null is the JSON null value.
func Null() Value { return Value{Kind: KindNull} }

// ParseError indicates that a byte sequence is not valid JSON, or that an
// imported document does not have the required top-level structure.
type ParseError struct {
	// Reason describes what was wrong with the input.
	Reason string

	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Err)
	}
	return "parse error: " + e.Reason
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a JSON document into a [Value], preserving object member
// order and the textual form of numbers.
//
// Returns a [*ParseError] if the input is not a single valid JSON document.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, &ParseError{Reason: "invalid JSON", Err: err}
	}

	// a valid document has exactly one top-level value
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, &ParseError{Reason: "trailing data after JSON document"}
	}
	return v, nil
}

// parseValue decodes the next complete value from the token stream.
func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := []Member{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj = append(obj, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Value{Kind: KindObject, Obj: obj}, nil

		case '[':
			arr := []Value{}
			for dec.More() {
				elem, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Value{Kind: KindArray, Arr: arr}, nil

		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}

	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

// MarshalJSON serializes the value back to JSON, preserving object member
// order and number formatting. This implements json.Marshaler so normalized
// payloads round-trip through the API byte-faithfully.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		if v.Num == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(string(v.Num))
		}
	case KindString:
		enc, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.Arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %d", v.Kind)
	}
	return nil
}
