// Package http holds the HTTP handlers of the rate server. Handlers parse
// and validate the request, call a service and render JSON; failures go
// through errors.ErrorHandler as RFC 7807 problems.
//
// Routes:
//
//	GET /api/v1/rates/{date}?max_offset=N   nearest rate on or before date
//	GET /api/v1/rates?start=&end=           rates in an inclusive range
//	GET /api/v1/format                      inferred dialect of the rate file
//	GET /health, /health/ready, /health/live, /version
//	GET /metrics                            Prometheus exposition
package http
