package shape

// Field is one entry of a [FieldMap]: a dotted path and the terminal value
// found at that path.
type Field struct {
	Path  string
	Value Value
}

// FieldMap is the flat projection of a nested JSON document: dotted paths
// mapped to terminal values, in depth-first document order. Paths are
// unique; a later occurrence of an existing path replaces the earlier value
// in place.
type FieldMap []Field

// Get returns the value stored at the given dotted path.
func (m FieldMap) Get(path string) (Value, bool) {
	for _, f := range m {
		if f.Path == path {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Paths returns all field paths in order.
func (m FieldMap) Paths() []string {
	paths := make([]string, len(m))
	for i, f := range m {
		paths[i] = f.Path
	}
	return paths
}

// Flatten collapses a nested JSON value into a [FieldMap] of dotted paths.
//
// Nested non-array objects are expanded recursively into deeper paths.
// Arrays are not expanded: an array at the top (or reached while recursing)
// contributes only its first element under the same prefix, for structure
// discovery; an empty array contributes nothing. An array encountered as an
// object member is terminal and stored as-is, like any scalar.
//
// Scalars at the top level produce an empty map; callers are expected to
// pass an object or array.
func Flatten(v Value) FieldMap {
	return flattenInto(FieldMap{}, v, "")
}

func flattenInto(acc FieldMap, v Value, prefix string) FieldMap {
	switch v.Kind {
	case KindArray:
		if len(v.Arr) == 0 {
			return acc
		}
		return flattenInto(acc, v.Arr[0], prefix)

	case KindObject:
		for _, m := range v.Obj {
			path := m.Key
			if prefix != "" {
				path = prefix + "." + m.Key
			}
			if m.Value.Kind == KindObject {
				acc = flattenInto(acc, m.Value, path)
			} else {
				acc = assign(acc, path, m.Value)
			}
		}
		return acc

	default:
		return acc
	}
}

// assign appends a field, replacing any earlier field with the same path so
// that paths stay unique.
func assign(acc FieldMap, path string, v Value) FieldMap {
	for i, f := range acc {
		if f.Path == path {
			acc[i].Value = v
			return acc
		}
	}
	return append(acc, Field{Path: path, Value: v})
}
