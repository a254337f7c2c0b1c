// Package scheduler is the occurrence-tracking engine: it owns the chore
// registry, the pending-occurrence map, and the sweep cursor, persisting
// every mutation as one snapshot document.
package scheduler

import (
	"context"
	"sync"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
	"dailiesbot/internal/eventbus"
	"dailiesbot/internal/storage"
	"dailiesbot/pkg/logx"
)

// Service is safe for concurrent use. One mutex serializes every
// read-modify-persist section, so a sweep and a command mutation can never
// interleave their snapshot writes.
type Service struct {
	mu sync.Mutex

	log   logx.Logger
	store storage.Store
	bus   eventbus.Bus
	clock Clock

	// reminder wall-clock settings
	hour, min, sec int
	loc            *time.Location

	chores   map[int]chore.Chore
	upcoming map[int]time.Time // id -> civil due date
	lastID   int
	cursor   time.Time // absolute instant of the next sweep
}

// New loads (or initializes) the persisted state and returns a ready service.
// A snapshot that references unknown chores, or chores without a pending
// occurrence, is reconciled rather than rejected.
func New(ctx context.Context, cfg Config, store storage.Store, clock Clock, log logx.Logger, bus eventbus.Bus) (*Service, error) {
	hour, min, sec, err := cfg.remindClock()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.location()
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if clock == nil {
		clock = SystemClock{}
	}

	s := &Service{
		log:      log,
		store:    store,
		bus:      bus,
		clock:    clock,
		hour:     hour,
		min:      min,
		sec:      sec,
		loc:      loc,
		chores:   map[int]chore.Chore{},
		upcoming: map[int]time.Time{},
	}

	var doc stateDoc
	ok, err := store.Load(ctx, stateKey, &doc)
	if err != nil {
		return nil, err
	}

	var cursorDate time.Time
	if ok {
		chores, upcoming, lastID, cd, derr := decodeState(doc)
		if derr != nil {
			// Structurally valid JSON with bad content; start fresh rather
			// than refuse to boot. The storage layer already quarantined
			// undecodable files.
			log.Warn("state snapshot rejected, starting fresh", logx.Err(derr))
		} else {
			s.chores = chores
			s.upcoming = upcoming
			s.lastID = lastID
			cursorDate = cd
		}
	}

	now := clock.Now().In(loc)
	s.reconcile(now)
	s.cursor = s.cursorFrom(cursorDate, now)

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	log.Info("scheduler loaded",
		logx.Int("chores", len(s.chores)),
		logx.Time("next_sweep", s.cursor))
	return s, nil
}

// reconcile restores the chore<->occurrence pairing invariant after load:
// occurrences without a chore are dropped, chores without an occurrence get
// one recomputed from today.
func (s *Service) reconcile(now time.Time) {
	today := calendar.DateOf(now)
	for id := range s.upcoming {
		if _, ok := s.chores[id]; !ok {
			s.log.Warn("dropping orphan occurrence", logx.Int("id", id))
			delete(s.upcoming, id)
		}
	}
	for id, c := range s.chores {
		if _, ok := s.upcoming[id]; !ok {
			next := chore.NextOccurrence(c, today, time.Time{})
			s.log.Warn("restoring missing occurrence",
				logx.Int("id", id), logx.Time("date", next))
			s.upcoming[id] = next
		}
	}
}

// cursorFrom turns a persisted cursor date into the absolute sweep instant.
// With no persisted date the first sweep is today at the reminder time, or
// tomorrow if that has already passed.
func (s *Service) cursorFrom(cursorDate, now time.Time) time.Time {
	if !cursorDate.IsZero() {
		return time.Date(cursorDate.Year(), cursorDate.Month(), cursorDate.Day(),
			s.hour, s.min, s.sec, 0, s.loc)
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.min, s.sec, 0, s.loc)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// Apply installs new reminder settings, re-anchoring the pending cursor date
// at the new wall-clock time and zone.
func (s *Service) Apply(ctx context.Context, cfg Config) error {
	hour, min, sec, err := cfg.remindClock()
	if err != nil {
		return err
	}
	loc, err := cfg.location()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hour, s.min, s.sec = hour, min, sec
	s.loc = loc
	cd := calendar.DateOf(s.cursor.In(s.loc))
	s.cursor = time.Date(cd.Year(), cd.Month(), cd.Day(), hour, min, sec, 0, loc)
	return s.persistLocked(ctx)
}

// Location returns the timezone sweeps run in.
func (s *Service) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// NextSweep returns the current cursor instant.
func (s *Service) NextSweep() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// today returns the current civil date in the scheduler's zone.
// Callers must hold s.mu.
func (s *Service) todayLocked() time.Time {
	return calendar.DateOf(s.clock.Now().In(s.loc))
}

// persistLocked saves the current state. Callers must hold s.mu.
func (s *Service) persistLocked(ctx context.Context) error {
	doc := encodeState(s.chores, s.upcoming, s.lastID, s.cursor.In(s.loc))
	return s.store.Save(ctx, stateKey, doc)
}

func (s *Service) publish(typ string, ev any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Time: time.Now(), Data: ev})
}
