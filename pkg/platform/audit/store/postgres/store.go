// Package postgres persists audit events in the audit_events table. It serves
// as the durable fallback when the Kafka sink is unavailable.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "neuroaccess/pkg/platform/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Emit implements audit.Publisher.
func (s *Store) Emit(ctx context.Context, event audit.Event) error {
	return s.Append(ctx, event)
}

// Append inserts the event under a fresh ID.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, action, application_id,
			subject, decision, reason, request_id, severity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.Action,
		event.ApplicationID,
		event.Subject,
		event.Decision,
		event.Reason,
		event.RequestID,
		string(event.Severity),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns the events about one account, oldest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, action, application_id, subject,
		       decision, reason, request_id, severity
		FROM audit_events
		WHERE subject = $1
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			severity string
		)
		if err := rows.Scan(&category, &e.Timestamp, &e.Action, &e.ApplicationID, &e.Subject,
			&e.Decision, &e.Reason, &e.RequestID, &severity); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Severity = audit.Severity(severity)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
