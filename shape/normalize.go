package shape

import "strings"

// seriesMarkers are the key-name substrings that identify a wrapped
// time-series envelope (the Alpha Vantage response family).
var seriesMarkers = []string{"Time Series", "Adjusted Series"}

// Normalize rewrites known wrapped-series response envelopes into an array
// of row objects; all other payloads pass through unchanged.
//
// A payload matches when it is an object with a key whose name contains
// "Time Series" or "Adjusted Series" (exact, case-sensitive substring) and
// whose value is an object mapping date strings to row objects. The whole
// payload is then replaced by an array of those rows, each gaining a leading
// "date" member carrying the original map key. Only the first matching key
// in document order is honoured.
//
// Normalize never fails: absence of the pattern is the common case and
// returns the input as-is.
func Normalize(v Value) Value {
	if v.Kind != KindObject {
		return v
	}

	for _, m := range v.Obj {
		if !isSeriesKey(m.Key) {
			continue
		}
		if m.Value.Kind != KindObject {
			return v
		}

		rows := make([]Value, 0, len(m.Value.Obj))
		for _, entry := range m.Value.Obj {
			rows = append(rows, seriesRow(entry.Key, entry.Value))
		}
		return Value{Kind: KindArray, Arr: rows}
	}

	return v
}

func isSeriesKey(key string) bool {
	for _, marker := range seriesMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

// seriesRow builds one row object with the series key injected as a leading
// "date" member. If the row itself carries a "date" member, its value wins
// but the leading position is kept.
func seriesRow(date string, row Value) Value {
	obj := []Member{{Key: "date", Value: String(date)}}
	if row.Kind == KindObject {
		for _, m := range row.Obj {
			if m.Key == "date" {
				obj[0].Value = m.Value
				continue
			}
			obj = append(obj, m)
		}
	}
	return Value{Kind: KindObject, Obj: obj}
}
