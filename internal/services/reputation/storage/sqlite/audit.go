package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// AppendAuditEvent stores one audit event.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now()
	}
	attributes, err := storage.EncodeAuditAttributes(evt.Attributes)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO audit_events (
		   timestamp, event_name, severity, trainer_id, faction_id, related_faction_id,
		   delta, trace_id, span_id, attributes_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		evt.TrainerID,
		evt.FactionID,
		evt.RelatedFactionID,
		evt.Delta,
		evt.TraceID,
		evt.SpanID,
		attributes,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns events by name, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, eventName, trainerID string, limit int) ([]storage.AuditEvent, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	query := `SELECT id, timestamp, event_name, severity, trainer_id, faction_id, related_faction_id,
	                 delta, trace_id, span_id, attributes_json
	            FROM audit_events
	           WHERE event_name = ?`
	args := []any{eventName}
	if trainerID = strings.TrimSpace(trainerID); trainerID != "" {
		query += ` AND trainer_id = ?`
		args = append(args, trainerID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []storage.AuditEvent
	for rows.Next() {
		var evt storage.AuditEvent
		var timestamp int64
		var attributes string
		if err := rows.Scan(
			&evt.ID,
			&timestamp,
			&evt.EventName,
			&evt.Severity,
			&evt.TrainerID,
			&evt.FactionID,
			&evt.RelatedFactionID,
			&evt.Delta,
			&evt.TraceID,
			&evt.SpanID,
			&attributes,
		); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		evt.Timestamp = fromMillis(timestamp)
		if evt.Attributes, err = storage.DecodeAuditAttributes(attributes); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
