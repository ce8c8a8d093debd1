package standing

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/platform/timeouts"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/events"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/metrics"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// MaxDelta bounds the magnitude of a single standing event. It spans the full
// standing range so one event can move a trainer from one extreme to the other.
const MaxDelta = faction.MaxStanding - faction.MinStanding

const defaultConcurrency = 4

const tracerName = "github.com/louisbranch/faction-reputation/reputation/standing"

// Approvals lists the tribute-gated titles a trainer unlocked.
type Approvals interface {
	ApprovedTitleIDs(ctx context.Context, trainerID, factionID string) ([]string, error)
}

// Config wires an Engine.
type Config struct {
	Catalog   *faction.Catalog
	Standings storage.StandingStore
	Approvals Approvals
	// Audit records skipped propagation legs. Nil disables the ledger.
	Audit *audit.Emitter
	// Metrics counts events and failures. Nil disables counting.
	Metrics *metrics.Instruments
	// Concurrency caps parallel neighbor updates. Zero uses a default of 4.
	Concurrency int
	// PropagationTimeout bounds detached neighbor updates. Zero uses
	// timeouts.Propagation.
	PropagationTimeout time.Duration
}

// Engine orchestrates standing mutations.
type Engine struct {
	catalog            *faction.Catalog
	standings          storage.StandingStore
	approvals          Approvals
	audit              *audit.Emitter
	metrics            *metrics.Instruments
	tracer             trace.Tracer
	concurrency        int
	propagationTimeout time.Duration
}

// New validates cfg and builds an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Standings == nil {
		return nil, fmt.Errorf("standing store is required")
	}
	if cfg.Approvals == nil {
		return nil, fmt.Errorf("approval store is required")
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("propagation concurrency must not be negative")
	}
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	timeout := cfg.PropagationTimeout
	if timeout <= 0 {
		timeout = timeouts.Propagation
	}
	return &Engine{
		catalog:            cfg.Catalog,
		standings:          cfg.Standings,
		approvals:          cfg.Approvals,
		audit:              cfg.Audit,
		metrics:            cfg.Metrics,
		tracer:             otel.Tracer(tracerName),
		concurrency:        concurrency,
		propagationTimeout: timeout,
	}, nil
}

// Catalog returns the catalog the engine resolves titles against.
func (e *Engine) Catalog() *faction.Catalog {
	return e.catalog
}

// Clamp bounds value to the standing range.
func Clamp(value int) int {
	if value < faction.MinStanding {
		return faction.MinStanding
	}
	if value > faction.MaxStanding {
		return faction.MaxStanding
	}
	return value
}

// ValidateDelta rejects deltas larger than the standing range.
func ValidateDelta(delta int) error {
	if delta < -MaxDelta || delta > MaxDelta {
		return apperrors.WithMetadata(
			apperrors.CodeDeltaInvalid,
			fmt.Sprintf("delta %d outside [%d, %d]", delta, -MaxDelta, MaxDelta),
			map[string]string{"Min": strconv.Itoa(-MaxDelta), "Max": strconv.Itoa(MaxDelta)},
		)
	}
	return nil
}

// ApplyEvent applies delta to the origin faction and propagates one hop.
//
// A zero delta is a no-op that returns the unchanged record. A storage failure
// on the origin aborts the event with nothing applied.
func (e *Engine) ApplyEvent(ctx context.Context, trainerID, factionID string, delta int, reason string) (Result, error) {
	trainerID, factionID, err := e.validatePair(trainerID, factionID)
	if err != nil {
		return Result{}, err
	}
	if err := ValidateDelta(delta); err != nil {
		return Result{}, err
	}
	if delta == 0 {
		current, err := e.standings.GetStanding(ctx, trainerID, factionID)
		if err != nil {
			return Result{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "get standing", err)
		}
		return Result{Origin: Change{
			FactionID:  factionID,
			OldValue:   current.Value,
			NewValue:   current.Value,
			OldTitleID: current.CurrentTitleID,
			NewTitleID: current.CurrentTitleID,
		}}, nil
	}

	ctx, span := e.tracer.Start(ctx, "standing.ApplyEvent", trace.WithAttributes(
		attribute.String("reputation.trainer_id", trainerID),
		attribute.String("reputation.faction_id", factionID),
		attribute.Int("reputation.delta", delta),
		attribute.String("reputation.reason", reason),
	))
	defer span.End()

	origin, err := e.apply(ctx, trainerID, factionID, delta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "origin update failed")
		return Result{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "apply origin delta", err)
	}
	e.metrics.StandingEvent(ctx, factionID, reason)

	// Neighbors are updated even when the caller has gone away.
	propagated, failures := e.propagate(context.WithoutCancel(ctx), trainerID, factionID, delta)
	return Result{Origin: origin, Propagated: propagated, Failures: failures}, nil
}

// RefreshTitle re-resolves the stored title without changing the value. It is
// run after a tribute approval so the new title is granted immediately.
func (e *Engine) RefreshTitle(ctx context.Context, trainerID, factionID string) (Change, error) {
	trainerID, factionID, err := e.validatePair(trainerID, factionID)
	if err != nil {
		return Change{}, err
	}
	change, err := e.apply(ctx, trainerID, factionID, 0)
	if err != nil {
		return Change{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "refresh title", err)
	}
	return change, nil
}

// SetTitle stores titleID as the current title. An empty titleID clears it.
// Granting a tribute-gated title without an approved tribute is refused.
func (e *Engine) SetTitle(ctx context.Context, trainerID, factionID, titleID string) (Change, error) {
	trainerID, factionID, err := e.validatePair(trainerID, factionID)
	if err != nil {
		return Change{}, err
	}
	titleID = strings.TrimSpace(titleID)
	gated := false
	if titleID != "" {
		title, ok := e.catalog.Titles().Title(titleID)
		if !ok || title.FactionID != factionID {
			return Change{}, apperrors.New(apperrors.CodeTitleUnknown, fmt.Sprintf("title %q not in faction %q", titleID, factionID))
		}
		gated = title.RequiresTribute
	}

	before, after, err := e.standings.MutateStanding(ctx, trainerID, factionID, func(current storage.Standing, approved []string) (storage.Standing, error) {
		if gated && !faction.NewApprovedTitles(approved...).Has(titleID) {
			return current, apperrors.New(apperrors.CodeTitleGateViolation, fmt.Sprintf("title %q requires an approved tribute", titleID))
		}
		next := current
		next.CurrentTitleID = titleID
		return next, nil
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeTitleGateViolation) {
			return Change{}, err
		}
		return Change{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "set title", err)
	}
	return newChange(before, after, ""), nil
}

func (e *Engine) validatePair(trainerID, factionID string) (string, string, error) {
	trainerID = strings.TrimSpace(trainerID)
	factionID = strings.TrimSpace(factionID)
	if trainerID == "" {
		return "", "", apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	}
	if factionID == "" {
		return "", "", apperrors.New(apperrors.CodeFactionIDRequired, "faction id is required")
	}
	if _, ok := e.catalog.Faction(factionID); !ok {
		return "", "", apperrors.WithMetadata(
			apperrors.CodeFactionUnknown,
			fmt.Sprintf("faction %q is not in the catalog", factionID),
			map[string]string{"FactionID": factionID},
		)
	}
	return trainerID, factionID, nil
}

func (e *Engine) approved(ctx context.Context, trainerID, factionID string) (faction.ApprovedTitles, error) {
	ids, err := e.approvals.ApprovedTitleIDs(ctx, trainerID, factionID)
	if err != nil {
		return nil, err
	}
	return faction.NewApprovedTitles(ids...), nil
}

// apply adds delta under the pair lock and re-resolves the title from the
// clamped value and the approvals read under that lock.
func (e *Engine) apply(ctx context.Context, trainerID, factionID string, delta int) (Change, error) {
	titles := e.catalog.Titles()
	var resolution faction.Resolution
	before, after, err := e.standings.MutateStanding(ctx, trainerID, factionID, func(current storage.Standing, approved []string) (storage.Standing, error) {
		next := current
		next.Value = Clamp(current.Value + delta)
		resolution = titles.Resolve(factionID, next.Value, faction.NewApprovedTitles(approved...))
		next.CurrentTitleID = resolution.TitleID()
		return next, nil
	})
	if err != nil {
		return Change{}, err
	}
	pendingID := ""
	if resolution.Pending != nil {
		pendingID = resolution.Pending.ID
	}
	return newChange(before, after, pendingID), nil
}

type leg struct {
	factionID string
	delta     int
}

// propagate updates each non-neutral neighbor once. Neighbors of neighbors
// are never visited.
func (e *Engine) propagate(ctx context.Context, trainerID, originID string, delta int) ([]Change, []Failure) {
	var legs []leg
	for _, n := range e.catalog.Graph().NeighborsOf(originID) {
		if !n.Propagates() {
			continue
		}
		secondary := faction.SecondaryDelta(delta, n.Weight)
		if secondary == 0 {
			continue
		}
		legs = append(legs, leg{factionID: n.FactionID, delta: secondary})
	}
	if len(legs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.propagationTimeout)
	defer cancel()

	changes := make([]Change, len(legs))
	errs := make([]error, len(legs))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, l := range legs {
		g.Go(func() error {
			legCtx, span := e.tracer.Start(ctx, "standing.Propagate", trace.WithAttributes(
				attribute.String("reputation.origin_faction_id", originID),
				attribute.String("reputation.faction_id", l.factionID),
				attribute.Int("reputation.delta", l.delta),
			))
			defer span.End()
			change, err := e.apply(legCtx, trainerID, l.factionID, l.delta)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "propagation failed")
				errs[i] = err
				return nil
			}
			changes[i] = change
			return nil
		})
	}
	_ = g.Wait()

	var propagated []Change
	var failures []Failure
	for i, l := range legs {
		if errs[i] == nil {
			propagated = append(propagated, changes[i])
			continue
		}
		failure := Failure{FactionID: l.factionID, Delta: l.delta, Err: errs[i]}
		failures = append(failures, failure)
		e.recordFailure(ctx, trainerID, originID, failure)
	}
	return propagated, failures
}

func (e *Engine) recordFailure(ctx context.Context, trainerID, originID string, failure Failure) {
	log.Printf("propagation skipped trainer=%s origin=%s neighbor=%s delta=%d: %v",
		trainerID, originID, failure.FactionID, failure.Delta, failure.Err)
	e.metrics.PropagationFailure(ctx, originID, failure.FactionID)
	err := e.audit.Emit(ctx, storage.AuditEvent{
		EventName:        events.PropagationFailed,
		Severity:         string(audit.SeverityWarn),
		TrainerID:        trainerID,
		FactionID:        originID,
		RelatedFactionID: failure.FactionID,
		Delta:            failure.Delta,
		Attributes:       map[string]string{"error": failure.Err.Error()},
	})
	if err != nil {
		log.Printf("audit %s: %v", events.PropagationFailed, err)
	}
}
