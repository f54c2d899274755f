// Package server exposes a node registry over HTTP. It runs a Gin engine
// behind a net/http middleware chain and serves HTTP/1.1 and h2c on one port.
//
// # Middleware
//
// Handler-level middleware (server/middleware), outermost first:
//
//   - Recovery: panics become INTERNAL_ERROR responses
//   - RequestID: X-Request-Id propagation into the logging context
//   - CORS: cross-origin headers and preflight
//   - RateLimit: per-client sliding window, enabled by server.rate_limit
//   - BodySizeLimit: request body cap
//   - RequestLogger: one line per request, probes skipped
//
// Tracing runs inside the engine so spans carry the matched route.
//
// # Endpoints
//
//   - GET  /nodes: every compiled node, by name
//   - GET  /nodes/:name: one node
//   - POST /nodes/:name/validate: run a node on {"record": {...}, "params": {...}}
//   - GET  /graph: nodes plus dependency edges
//   - GET  /health, /ready, /alive, /info, /metrics
//
// Failures use the errors package body; a record missing inputs is a 422
// with code MISSING_INPUT.
package server
