// Package audit records durable operator-facing events for the reputation
// service: skipped propagation legs, failed compensations and reviews.
//
// Distributed tracing stays in package `internal/platform/otel`; audit events
// carry the trace and span ids of the request that produced them.
package audit
