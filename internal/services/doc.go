// Package services holds the logic behind the rate query server.
//
// RateService answers single-date lookups with the nearest earlier rate,
// range queries and format introspection over one immutable rate table.
// HealthService aggregates readiness checks and runtime statistics for the
// health endpoints.
//
// Services take a *slog.Logger and optional telemetry through their
// constructors and are safe for concurrent use by HTTP handlers.
package services
