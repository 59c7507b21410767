// Package internal holds the convene server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - domain: business logic and domain models (users, events)
// - storage: repository interfaces with memory and postgres backends
// - jobs: background notification delivery
// - auth, config, email, metrics, sanitize, telemetry, validation: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
