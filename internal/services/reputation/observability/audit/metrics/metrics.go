// Package metrics defines the reputation engine's OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// StandingEventsTotal counts applied standing events by origin reason.
	StandingEventsTotal = "reputation.standing.events"
	// PropagationFailuresTotal counts skipped propagation legs.
	PropagationFailuresTotal = "reputation.standing.propagation_failures"

	meterName = "github.com/louisbranch/faction-reputation/reputation"
)

// Instruments holds the engine counters.
type Instruments struct {
	events   metric.Int64Counter
	failures metric.Int64Counter
}

// New creates the counters on meter, or on the global meter provider when nil.
func New(meter metric.Meter) (*Instruments, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	events, err := meter.Int64Counter(StandingEventsTotal,
		metric.WithDescription("Standing events applied to an origin faction."))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", StandingEventsTotal, err)
	}
	failures, err := meter.Int64Counter(PropagationFailuresTotal,
		metric.WithDescription("Propagation legs skipped after a storage failure."))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", PropagationFailuresTotal, err)
	}
	return &Instruments{events: events, failures: failures}, nil
}

// StandingEvent counts one applied event.
func (i *Instruments) StandingEvent(ctx context.Context, factionID, reason string) {
	if i == nil {
		return
	}
	i.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("faction_id", factionID),
		attribute.String("reason", reason),
	))
}

// PropagationFailure counts one skipped leg.
func (i *Instruments) PropagationFailure(ctx context.Context, originFactionID, neighborFactionID string) {
	if i == nil {
		return
	}
	i.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("origin_faction_id", originFactionID),
		attribute.String("neighbor_faction_id", neighborFactionID),
	))
}
