// Package poller fetches widget data and schedules per-widget polling.
//
// The main components are:
//
//   - [Proxy]: transport collaborator that retrieves a raw endpoint URL
//   - [Client]: fetches an endpoint through a Proxy and normalizes the payload
//   - [Manager]: owns one independent polling runner per widget
//   - [Event]: poll lifecycle notification emitted on the Manager's channel
//
// Each widget polls on its own timer keyed by (widget id, endpoint,
// interval); changing a widget's endpoint or interval tears the runner down
// and starts a fresh one rather than mutating a running timer. There is no
// cross-widget coordination, queueing, or shared rate limiting.
//
// Users of the finboard library should not need to interact with this
// package directly.
package poller
