// Package server provides the HTTP server for the finboard dashboard and API.
//
// This package is internal to finboard and handles all HTTP concerns:
//
//   - Dashboard serving: serves the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: widget configuration CRUD, reorder, and import/export under "/api/widgets"
//   - Live data: JSON snapshots under "/api/data"
//   - Server-Sent Events: real-time live data updates at "/api/sse"
//   - Proxy: "/api/proxy" fetches an endpoint server-side so the browser can
//     sidestep cross-origin restrictions
//   - Theme: "/api/theme" reads and switches the dashboard theme
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the finboard library should not need to interact with this
// package directly. The server is started automatically by [finboard.Dashboard.Start].
package server
