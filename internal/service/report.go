package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
	"github.com/pontoamd/ponto-server/internal/report"
)

const (
	labelIn  = "ENTRADA"
	labelOut = "SAÍDA"

	unknownName   = "Desconhecido"
	unknownHandle = "N/A"

	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

// Artifact is a rendered export ready for download.
type Artifact struct {
	Filename string
	Data     []byte
}

// Report builds auditable exports for closed date intervals. The roster
// is cached lazily with no invalidation; a role or name change
// elsewhere is reflected only after the service is recreated.
type Report struct {
	eventStore model.EventStore
	userStore  model.UserStore
	zone       *time.Location
	logger     *logger.Logger

	mu     sync.Mutex
	roster map[uuid.UUID]model.User
}

func NewReport(eventStore model.EventStore, userStore model.UserStore, zone *time.Location, logger *logger.Logger) *Report {
	return &Report{
		eventStore: eventStore,
		userStore:  userStore,
		zone:       zone,
		logger:     logger,
	}
}

// Rows fetches all events in the closed interval [start, end] (both
// ISO calendar dates, whole local days) and joins them against the
// roster. The join is defensive: an event whose user is missing from
// the roster gets sentinel name and handle, never an error. Zero
// matching events fail with ErrEmptyRange.
func (s *Report) Rows(ctx context.Context, start, end string) ([]report.Row, error) {
	startMillis, endMillis, err := s.rangeBounds(start, end)
	if err != nil {
		return nil, err
	}

	events, err := s.eventStore.GetByRange(ctx, startMillis, endMillis)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by range: %w", err)
	}

	if len(events) == 0 {
		return nil, model.ErrEmptyRange
	}

	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]report.Row, 0, len(events))
	for _, event := range events {
		rows = append(rows, s.buildRow(event, roster))
	}

	return rows, nil
}

// Export renders the rows for [start, end] into an xlsx artifact.
func (s *Report) Export(ctx context.Context, start, end string) (Artifact, error) {
	rows, err := s.Rows(ctx, start, end)
	if err != nil {
		return Artifact{}, err
	}

	data, err := report.Render(rows)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render export: %w", err)
	}

	s.logger.Info("export generated", "start", start, "end", end, "rows", len(rows))

	return Artifact{
		Filename: report.Filename(start, end),
		Data:     data,
	}, nil
}

// rangeBounds converts two ISO dates into inclusive epoch-millisecond
// bounds covering whole local days: start at 00:00:00.000 and end at
// 23:59:59.000 in the report timezone.
func (s *Report) rangeBounds(start, end string) (int64, int64, error) {
	startDay, err := time.ParseInLocation("2006-01-02", start, s.zone)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDay, err := time.ParseInLocation("2006-01-02", end, s.zone)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse end date: %w", err)
	}

	// Composed from calendar parts, not an offset from midnight: a DST
	// transition day is not 24 hours long.
	endOfDay := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, s.zone)

	return startDay.UnixMilli(), endOfDay.UnixMilli(), nil
}

func (s *Report) buildRow(event model.AttendanceEvent, roster map[uuid.UUID]model.User) report.Row {
	name, handle := unknownName, unknownHandle
	if user, ok := roster[event.UserID]; ok {
		name, handle = user.DisplayName, user.Handle
	}

	label := labelOut
	if event.Kind == model.KindIn {
		label = labelIn
	}

	at := time.UnixMilli(event.Timestamp).In(s.zone)

	return report.Row{
		DisplayName: name,
		Handle:      handle,
		Date:        at.Format(dateLayout),
		Time:        at.Format(timeLayout),
		KindLabel:   label,
		Latitude:    event.Latitude,
		Longitude:   event.Longitude,
		MapLink:     fmt.Sprintf("https://www.google.com/maps?q=%v,%v", event.Latitude, event.Longitude),
	}
}

func (s *Report) loadRoster(ctx context.Context) (map[uuid.UUID]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roster != nil {
		return s.roster, nil
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	roster := make(map[uuid.UUID]model.User, len(users))
	for _, user := range users {
		roster[user.ID] = user
	}
	s.roster = roster

	return roster, nil
}
