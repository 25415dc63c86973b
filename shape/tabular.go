package shape

// LargestArray locates the largest array embedded anywhere in a JSON value.
//
// An array value is returned directly; nothing below an already-found array
// is searched. Objects are searched depth-first in member order, and among
// all arrays discovered in the subtree the one with the greatest length
// wins. Ties keep the first array encountered. An empty array still counts
// as found; only a subtree with no array at all reports false. Scalars
// contain no array.
//
// The second return is false when no array was found. Table-style rendering
// uses this to locate the row data when an endpoint wraps an array inside
// metadata.
func LargestArray(v Value) ([]Value, bool) {
	switch v.Kind {
	case KindArray:
		return v.Arr, true

	case KindObject:
		var best []Value
		found := false
		for _, m := range v.Obj {
			arr, ok := LargestArray(m.Value)
			if !ok {
				continue
			}
			if !found || len(arr) > len(best) {
				best = arr
				found = true
			}
		}
		return best, found

	default:
		return nil, false
	}
}
