// Package shape provides pure functions for working with JSON payloads of
// unknown structure: flattening nested objects into dotted field paths,
// normalizing known time-series envelopes into arrays of rows, and locating
// tabular data embedded inside wrapper objects.
//
// All functions operate on [Value], an order-preserving representation of a
// JSON document. Order matters here: field paths are produced in document
// order, the normalizer honours only the first matching series key, and the
// tabular search breaks ties by first encounter. A plain map[string]any
// would lose all three guarantees, so payloads are parsed with [Parse]
// instead of json.Unmarshal.
//
// The functions are defensive by construction. A payload that lacks the
// expected structure yields an empty or identity result, never an error,
// because heterogeneous third-party response shapes are the common case.
package shape
