package model

import (
	"context"

	"github.com/google/uuid"
)

// Kind discriminates attendance events.
type Kind string

const (
	// KindIn is a clock-in event.
	KindIn Kind = "IN"
	// KindOut is a clock-out event.
	KindOut Kind = "OUT"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIn || k == KindOut
}

// Opposite returns OUT for IN and IN for OUT.
func (k Kind) Opposite() Kind {
	if k == KindIn {
		return KindOut
	}
	return KindIn
}

// EventStore defines persistence operations for attendance events.
// All list operations return events ordered by timestamp descending.
type EventStore interface {
	Create(ctx context.Context, event AttendanceEvent) (AttendanceEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (AttendanceEvent, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]AttendanceEvent, error)
	GetByRange(ctx context.Context, startMillis, endMillis int64) ([]AttendanceEvent, error)
	UpdateTimestampKind(ctx context.Context, id uuid.UUID, timestamp int64, kind Kind) error
}

// AttendanceEvent is the ledger unit. Timestamp is epoch milliseconds.
// EvidenceKey points at the captured JPEG in object storage; it is set
// exactly once at commit and never rewritten, not even by corrections.
type AttendanceEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Timestamp   int64
	Kind        Kind
	EvidenceKey string
	Latitude    float64
	Longitude   float64
}

// EventUpdate carries the only two fields a correction may rewrite.
type EventUpdate struct {
	Timestamp int64
	Kind      Kind
}
