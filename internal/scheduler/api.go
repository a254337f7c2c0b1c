package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
	"dailiesbot/internal/command"
	"dailiesbot/internal/eventbus"
	"dailiesbot/pkg/logx"
)

// Add registers a chore under the smallest unused id, schedules its first
// occurrence, and persists. Ids freed by Delete are reused.
func (s *Service) Add(ctx context.Context, c chore.Chore) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := 0
	for {
		if _, taken := s.chores[id]; !taken {
			break
		}
		id++
	}

	next := chore.NextOccurrence(c, s.todayLocked(), time.Time{})
	s.chores[id] = c
	s.upcoming[id] = next
	s.lastID = id

	if err := s.persistLocked(ctx); err != nil {
		delete(s.chores, id)
		delete(s.upcoming, id)
		return 0, err
	}

	s.log.Info("chore added", logx.Int("id", id),
		logx.String("title", c.Title), logx.Time("next", next))
	s.publish(eventbus.TypeChoreAdded, eventbus.ChoreEvent{ID: id, Title: c.Title, User: c.User, Next: next})
	return id, nil
}

// Delete removes a chore and its pending occurrence.
func (s *Service) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chores[id]
	if !ok {
		return ErrNotFound
	}
	date, hadOcc := s.upcoming[id]
	delete(s.chores, id)
	delete(s.upcoming, id)

	if err := s.persistLocked(ctx); err != nil {
		s.chores[id] = c
		if hadOcc {
			s.upcoming[id] = date
		}
		return err
	}

	s.log.Info("chore deleted", logx.Int("id", id), logx.String("title", c.Title))
	s.publish(eventbus.TypeChoreDeleted, eventbus.ChoreEvent{ID: id, Title: c.Title, User: c.User})
	return nil
}

// Delay pushes a pending occurrence forward by a duration token (e.g. "3d",
// "2w", "1m"). Days and weeks add directly; months re-resolve the chore's
// month-day offset in the target month.
func (s *Service) Delay(ctx context.Context, id int, token string) (time.Time, error) {
	n, unit, ok := command.ParseDuration(token)
	if !ok {
		return time.Time{}, &command.ParseError{
			Msg: fmt.Sprintf("Invalid duration, must end in `d`, `w`, or `m`: %s", token),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, okc := s.chores[id]
	date, oko := s.upcoming[id]
	if !okc || !oko {
		return time.Time{}, ErrNotFound
	}

	var next time.Time
	switch unit {
	case chore.UnitDays:
		next = date.AddDate(0, 0, n)
	case chore.UnitWeeks:
		next = date.AddDate(0, 0, n*7)
	case chore.UnitMonths:
		year, month := calendar.AddMonths(date.Year(), int(date.Month()), n)
		day := date.Day()
		if c.Unit == chore.UnitMonths {
			day = calendar.ResolveMonthDay(year, month, c.MonthDays)
		}
		next = calendar.Date(year, month, day)
	}

	prev := date
	s.upcoming[id] = next
	if err := s.persistLocked(ctx); err != nil {
		s.upcoming[id] = prev
		return time.Time{}, err
	}

	s.log.Info("chore delayed", logx.Int("id", id),
		logx.Time("from", prev), logx.Time("to", next))
	s.publish(eventbus.TypeChoreDelayed, eventbus.ChoreEvent{ID: id, Title: c.Title, User: c.User, Next: next})
	return next, nil
}

// List returns every registered chore ordered by id.
func (s *Service) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.chores))
	for id, c := range s.chores {
		out = append(out, Entry{ID: id, Chore: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Upcoming returns every pending occurrence ordered by date, then id.
func (s *Service) Upcoming() []Occurrence {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Occurrence, 0, len(s.upcoming))
	for id, d := range s.upcoming {
		out = append(out, Occurrence{ID: id, Date: d, Chore: s.chores[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Today returns the current civil date in the scheduler's zone.
func (s *Service) Today() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayLocked()
}
