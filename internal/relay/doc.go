// Package relay provides the HTTP client for a chatd server.
//
// chatd acts as the shared key directory and store-and-forward point for
// envelopes between peers. The client implements domain.KeyDirectory and
// domain.Transport over JSON/HTTP, so the CLI can swap it in for the local
// file stores when a server URL is configured.
//
// Supported operations:
//   - Publishing a public-key record.
//   - Fetching a peer's public-key record.
//   - Submitting an envelope for storage and push delivery.
//
// Non-2xx statuses are returned as errors with the HTTP method, path and
// status text to aid diagnostics.
package relay
