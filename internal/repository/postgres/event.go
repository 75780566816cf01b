package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pontoamd/ponto-server/internal/model"
)

var _ model.EventStore = (*EventRepository)(nil)

type EventRepository struct {
	db *Connection
}

func NewEventRepository(db *Connection) *EventRepository {
	return &EventRepository{
		db: db,
	}
}

func (r *EventRepository) Create(ctx context.Context, event model.AttendanceEvent) (model.AttendanceEvent, error) {
	query := `INSERT INTO attendance_events (id, user_id, ts_millis, kind, evidence_key, latitude, longitude)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, user_id, ts_millis, kind, evidence_key, latitude, longitude`

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.UserID, event.Timestamp, string(event.Kind),
		event.EvidenceKey, event.Latitude, event.Longitude,
	))
	if err != nil {
		return model.AttendanceEvent{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return saved, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (model.AttendanceEvent, error) {
	query := `SELECT id, user_id, ts_millis, kind, evidence_key, latitude, longitude
			  FROM attendance_events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AttendanceEvent{}, model.ErrNotFound
		}
		return model.AttendanceEvent{}, fmt.Errorf("failed to get attendance event: %w", err)
	}

	return event, nil
}

func (r *EventRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	query := `SELECT id, user_id, ts_millis, kind, evidence_key, latitude, longitude
			  FROM attendance_events
			  WHERE user_id = $1
			  ORDER BY ts_millis DESC`

	return r.list(ctx, query, userID)
}

func (r *EventRepository) GetByRange(ctx context.Context, startMillis, endMillis int64) ([]model.AttendanceEvent, error) {
	query := `SELECT id, user_id, ts_millis, kind, evidence_key, latitude, longitude
			  FROM attendance_events
			  WHERE ts_millis >= $1 AND ts_millis <= $2
			  ORDER BY ts_millis DESC`

	return r.list(ctx, query, startMillis, endMillis)
}

func (r *EventRepository) UpdateTimestampKind(ctx context.Context, id uuid.UUID, timestamp int64, kind model.Kind) error {
	if !kind.Valid() {
		return &model.DecodeError{Field: "kind", Value: string(kind)}
	}

	const query = `UPDATE attendance_events SET ts_millis = $2, kind = $3 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, timestamp, string(kind))
	if err != nil {
		return fmt.Errorf("failed to update attendance event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]model.AttendanceEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance events: %w", err)
	}
	defer rows.Close()

	var events []model.AttendanceEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance events: %w", err)
	}

	return events, nil
}

func scanEvent(row pgx.Row) (model.AttendanceEvent, error) {
	var event model.AttendanceEvent
	var kind string
	err := row.Scan(
		&event.ID, &event.UserID, &event.Timestamp, &kind,
		&event.EvidenceKey, &event.Latitude, &event.Longitude,
	)
	if err != nil {
		return model.AttendanceEvent{}, err
	}

	event.Kind = model.Kind(kind)
	if !event.Kind.Valid() {
		return model.AttendanceEvent{}, &model.DecodeError{Field: "kind", Value: kind}
	}

	return event, nil
}
