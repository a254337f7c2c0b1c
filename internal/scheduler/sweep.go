package scheduler

import (
	"context"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
	"dailiesbot/internal/eventbus"
	"dailiesbot/pkg/logx"
)

// Sweep fires every occurrence due on or before now's date. Recurring chores
// are rolled forward from the fired date; fixed-date chores are removed.
// The whole batch, plus the advanced cursor, persists as one snapshot write:
// on a save failure nothing is applied.
//
// The fired return is false when the cursor has not been reached yet, which
// makes repeated calls within the same check window no-ops.
func (s *Service) Sweep(ctx context.Context, now time.Time) (DueList, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.In(s.loc)
	if now.Before(s.cursor) {
		return nil, false, nil
	}

	today := calendar.DateOf(now)
	due := DueList{}
	update := map[int]time.Time{}
	var remove []int

	for id, date := range s.upcoming {
		if date.After(today) {
			continue
		}
		c := s.chores[id]
		due[c.User] = append(due[c.User], Entry{ID: id, Chore: c})
		if c.Fixed() {
			remove = append(remove, id)
		} else {
			update[id] = chore.NextOccurrence(c, today, date)
		}
	}

	// Stage the batch on copies so a failed persist leaves state untouched.
	chores := make(map[int]chore.Chore, len(s.chores))
	for id, c := range s.chores {
		chores[id] = c
	}
	upcoming := make(map[int]time.Time, len(s.upcoming))
	for id, d := range s.upcoming {
		upcoming[id] = d
	}
	for id, d := range update {
		upcoming[id] = d
	}
	for _, id := range remove {
		delete(chores, id)
		delete(upcoming, id)
	}
	cursor := time.Date(today.Year(), today.Month(), today.Day(),
		s.hour, s.min, s.sec, 0, s.loc).AddDate(0, 0, 1)

	doc := encodeState(chores, upcoming, s.lastID, cursor)
	if err := s.store.Save(ctx, stateKey, doc); err != nil {
		return nil, false, err
	}

	s.chores = chores
	s.upcoming = upcoming
	s.cursor = cursor

	nDue := 0
	for _, entries := range due {
		nDue += len(entries)
	}
	s.log.Info("sweep fired",
		logx.Int("due", nDue),
		logx.Int("deleted", len(remove)),
		logx.Time("next_sweep", cursor))
	s.publish(eventbus.TypeSweepFired, eventbus.SweepEvent{Due: nDue, Deleted: len(remove), Cursor: cursor})
	return due, true, nil
}
