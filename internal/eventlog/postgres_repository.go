// Package eventlog implements C5 Event Journal: a strictly append-only
// log per transaction, synchronous with and scoped to the triggering
// mutation's transaction
package eventlog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// Repository implements domain.EventRepository against PostgreSQL.
type Repository struct {
	log *logger.Logger
}

// NewRepository creates a new eventlog Repository.
func NewRepository(log *logger.Logger) *Repository {
	return &Repository{log: log}
}

var _ domain.EventRepository = (*Repository)(nil)

// Append writes e using the caller's Querier, so the event shares the
// triggering mutation's transaction scope and is never observable for
// a rolled-back operation
func (r *Repository) Append(ctx context.Context, q domain.Querier, e *domain.TransactionEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		r.log.Error("failed to marshal event payload", zap.Error(err))
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO transaction_events (id, transaction_header_id, line_id, event_type, description, actor, payload, timestamp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, e.ID, e.HeaderID, e.LineID, e.EventType, e.Description, e.Actor, payload, e.Timestamp)
	if err != nil {
		r.log.Error("failed to append transaction event", zap.Error(err))
		return err
	}
	return nil
}

// ListByHeader returns a header's events ordered by timestamp, with ties
// broken by event id (a random UUID, not insertion order), optionally
// filtered by eventType
func (r *Repository) ListByHeader(ctx context.Context, q domain.Querier, headerID uuid.UUID, eventType *domain.EventType, limit, offset int) ([]*domain.TransactionEvent, error) {
	query := `
		SELECT id, transaction_header_id, line_id, event_type, description, actor, payload, timestamp
		FROM transaction_events WHERE transaction_header_id = $1
		ORDER BY timestamp ASC, id ASC LIMIT $2 OFFSET $3
	`
	args := []interface{}{headerID, limit, offset}
	if eventType != nil {
		query = `
			SELECT id, transaction_header_id, line_id, event_type, description, actor, payload, timestamp
			FROM transaction_events WHERE transaction_header_id = $1 AND event_type = $2
			ORDER BY timestamp ASC, id ASC LIMIT $3 OFFSET $4
		`
		args = []interface{}{headerID, *eventType, limit, offset}
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list transaction events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.TransactionEvent
	for rows.Next() {
		var e domain.TransactionEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.HeaderID, &e.LineID, &e.EventType, &e.Description, &e.Actor, &payload, &e.Timestamp); err != nil {
			r.log.Error("failed to scan transaction event", zap.Error(err))
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
