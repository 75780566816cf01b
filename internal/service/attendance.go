package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontoamd/ponto-server/internal/capture"
	"github.com/pontoamd/ponto-server/internal/geo"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
)

// NextKind returns the next permitted event kind for a history ordered
// by timestamp descending: IN if the history is empty or the most
// recent event is OUT, OUT otherwise. Only the most recent event is
// consulted; full alternation is not re-validated here.
func NextKind(history []model.AttendanceEvent) model.Kind {
	if len(history) == 0 || history[0].Kind == model.KindOut {
		return model.KindIn
	}
	return model.KindOut
}

// Attendance is the lifecycle engine: it decides the next valid event
// kind and gates commits on evidence completeness. It keeps a per-user
// history cache that is re-read from the store after every commit.
type Attendance struct {
	eventStore model.EventStore
	userStore  model.UserStore
	storage    model.Storage
	zone       *time.Location
	quality    int
	logger     *logger.Logger

	mu        sync.Mutex
	histories map[uuid.UUID][]model.AttendanceEvent
}

// NewAttendance creates the engine. quality is the JPEG quality used to
// normalize evidence images before storage.
func NewAttendance(
	eventStore model.EventStore,
	userStore model.UserStore,
	storage model.Storage,
	zone *time.Location,
	quality int,
	logger *logger.Logger,
) *Attendance {
	return &Attendance{
		eventStore: eventStore,
		userStore:  userStore,
		storage:    storage,
		zone:       zone,
		quality:    quality,
		logger:     logger,
		histories:  make(map[uuid.UUID][]model.AttendanceEvent),
	}
}

// History returns the user's events ordered by timestamp descending,
// served from the cache when present. The returned slice is a copy:
// the cached backing array is mutated by corrections and must never
// escape the service lock.
func (s *Attendance) History(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	s.mu.Lock()
	cached, ok := s.histories[userID]
	if ok {
		out := make([]model.AttendanceEvent, len(cached))
		copy(out, cached)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	return s.refreshHistory(ctx, userID)
}

// NextAction computes the next valid event kind for the user.
func (s *Attendance) NextAction(ctx context.Context, userID uuid.UUID) (model.Kind, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		return "", err
	}
	return NextKind(history), nil
}

// Commit records a new attendance event. It fails with
// ErrMissingEvidence when no image is given and ErrMissingLocation when
// no fix is given; the image check runs first. A payload that does not
// decode as an image fails with ErrInvalidEvidence. On success the user's
// cached history is re-read from the store, so callers always observe
// store-confirmed state. Commit is not idempotent: calling it twice
// produces two events with distinct identifiers and timestamps.
func (s *Attendance) Commit(ctx context.Context, userID uuid.UUID, kind model.Kind, image []byte, fix *geo.Fix) (model.AttendanceEvent, error) {
	if len(image) == 0 {
		return model.AttendanceEvent{}, model.ErrMissingEvidence
	}
	if fix == nil {
		return model.AttendanceEvent{}, model.ErrMissingLocation
	}
	if !kind.Valid() {
		return model.AttendanceEvent{}, &model.DecodeError{Field: "kind", Value: string(kind)}
	}

	// Normalize to JPEG at the configured quality; this also proves the
	// opaque payload really is an image before it reaches storage.
	still, err := capture.Reencode(image, s.quality)
	if err != nil {
		s.logger.Info("rejected evidence payload", "user_id", userID, "error", err.Error())
		return model.AttendanceEvent{}, model.ErrInvalidEvidence
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AttendanceEvent{}, model.ErrNotFound
		}
		return model.AttendanceEvent{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	event := model.AttendanceEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
		Kind:      kind,
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
	}
	event.EvidenceKey = evidenceKey(userID, event.ID)

	if err := s.storage.Upload(ctx, event.EvidenceKey, bytes.NewReader(still)); err != nil {
		return model.AttendanceEvent{}, fmt.Errorf("failed to upload evidence: %w", err)
	}

	saved, err := s.eventStore.Create(ctx, event)
	if err != nil {
		// The row is the source of truth; without it the blob is garbage.
		if derr := s.storage.Delete(ctx, event.EvidenceKey); derr != nil {
			s.logger.Error("failed to delete orphaned evidence", "key", event.EvidenceKey, "error", derr)
		}
		return model.AttendanceEvent{}, fmt.Errorf("failed to create event: %w", err)
	}

	if _, err := s.refreshHistory(ctx, userID); err != nil {
		// The commit itself succeeded; a stale cache is recoverable.
		s.logger.Error("failed to refresh history after commit", "user_id", userID, "error", err)
	}

	s.logger.Info("attendance event committed",
		"event_id", saved.ID,
		"user_id", userID,
		"kind", saved.Kind)

	return saved, nil
}

// Evidence streams the stored evidence image for an event.
func (s *Attendance) Evidence(ctx context.Context, eventID uuid.UUID) (model.AttendanceEvent, []byte, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return model.AttendanceEvent{}, nil, fmt.Errorf("failed to get event: %w", err)
	}

	reader, err := s.storage.Download(ctx, event.EvidenceKey)
	if err != nil {
		return model.AttendanceEvent{}, nil, fmt.Errorf("failed to download evidence: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return model.AttendanceEvent{}, nil, fmt.Errorf("failed to read evidence: %w", err)
	}

	return event, buf.Bytes(), nil
}

func (s *Attendance) refreshHistory(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	events, err := s.eventStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by user: %w", err)
	}

	cached := make([]model.AttendanceEvent, len(events))
	copy(cached, events)

	s.mu.Lock()
	s.histories[userID] = cached
	s.mu.Unlock()

	return events, nil
}

func evidenceKey(userID, eventID uuid.UUID) string {
	return fmt.Sprintf("user-%s/event-%s.jpg", userID.String(), eventID.String())
}
