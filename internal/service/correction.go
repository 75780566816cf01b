package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pontoamd/ponto-server/internal/model"
)

// Amend rewrites the timestamp and kind of a committed event. The
// identifier, evidence image and coordinates are never touched. The new
// timestamp is recomposed from a calendar date ("2006-01-02") and a
// clock time ("15:04" or "15:04:05") in the service's timezone.
//
// A correction that would make the user's chronological sequence stop
// alternating IN/OUT is rejected before any write. After a successful
// write the cached history is patched in place and re-sorted; no
// re-fetch happens because only one row changed and its new rank is
// locally computable. On write failure the cache is left untouched.
func (s *Attendance) Amend(ctx context.Context, eventID uuid.UUID, date, clock string, kind model.Kind) (model.AttendanceEvent, error) {
	if !kind.Valid() {
		return model.AttendanceEvent{}, &model.DecodeError{Field: "kind", Value: string(kind)}
	}

	timestamp, err := s.composeTimestamp(date, clock)
	if err != nil {
		return model.AttendanceEvent{}, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return model.AttendanceEvent{}, fmt.Errorf("failed to get event: %w", err)
	}

	history, err := s.History(ctx, event.UserID)
	if err != nil {
		return model.AttendanceEvent{}, err
	}

	amended := event
	amended.Timestamp = timestamp
	amended.Kind = kind

	if !alternates(applyAmendment(history, amended)) {
		return model.AttendanceEvent{}, model.ErrBrokenAlternation
	}

	if err := s.eventStore.UpdateTimestampKind(ctx, eventID, timestamp, kind); err != nil {
		return model.AttendanceEvent{}, fmt.Errorf("failed to update event: %w", err)
	}

	s.patchHistory(amended)

	s.logger.Info("attendance event amended",
		"event_id", eventID,
		"timestamp", timestamp,
		"kind", kind)

	return amended, nil
}

func (s *Attendance) composeTimestamp(date, clock string) (int64, error) {
	layout := "2006-01-02 15:04"
	if len(clock) == len("15:04:05") {
		layout = "2006-01-02 15:04:05"
	}

	t, err := time.ParseInLocation(layout, date+" "+clock, s.zone)
	if err != nil {
		return 0, fmt.Errorf("failed to parse date and time: %w", err)
	}

	return t.UnixMilli(), nil
}

// patchHistory replaces the amended event in the user's cached history
// and restores descending timestamp order. A miss means the history was
// never loaded; the next History call fetches fresh state anyway.
func (s *Attendance) patchHistory(amended model.AttendanceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[amended.UserID]
	if !ok {
		return
	}

	for i := range history {
		if history[i].ID == amended.ID {
			history[i] = amended
			break
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})
	s.histories[amended.UserID] = history
}

// applyAmendment returns a copy of history with the amended event in
// place, ordered ascending by timestamp for the alternation check.
func applyAmendment(history []model.AttendanceEvent, amended model.AttendanceEvent) []model.AttendanceEvent {
	out := make([]model.AttendanceEvent, 0, len(history)+1)
	found := false
	for _, ev := range history {
		if ev.ID == amended.ID {
			out = append(out, amended)
			found = true
			continue
		}
		out = append(out, ev)
	}
	if !found {
		out = append(out, amended)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// alternates reports whether an ascending sequence starts with IN and
// strictly alternates IN, OUT, IN, OUT.
func alternates(asc []model.AttendanceEvent) bool {
	want := model.KindIn
	for _, ev := range asc {
		if ev.Kind != want {
			return false
		}
		want = want.Opposite()
	}
	return true
}
