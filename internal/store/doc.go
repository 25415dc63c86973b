// Package store manages the two kinds of dashboard state.
//
// The widget collection ([WidgetStore]) is the persisted, ordered list of
// user-authored widget configurations. It is the single source of truth the
// API and poller read from: every mutation is written through to a
// [Storage] collaborator before the call returns, and the collection is
// reconstructed from the last snapshot at startup.
//
// Live poll results ([LiveStore]) are ephemeral per-widget cells holding the
// latest normalized payload, the loading flag, and the last error. They are
// never persisted and are published to subscribers for real-time streaming.
//
// Users of the finboard library should not need to interact with this
// package directly.
package store
