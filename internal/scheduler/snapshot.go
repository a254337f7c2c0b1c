package scheduler

import (
	"fmt"
	"sort"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
)

// stateKey is the snapshot document name under the storage prefix.
const stateKey = "state"

// stateDoc is the persisted snapshot. Dates use the yyyy/mm/dd wire format;
// next_remind_date is null until the first cursor is computed.
type stateDoc struct {
	Chores         []choreEntry `json:"chores"`
	Upcoming       []occEntry   `json:"upcoming_chores"`
	LastChoreID    int          `json:"last_chore_id"`
	NextRemindDate *string      `json:"next_remind_date"`
}

type choreEntry struct {
	ID    int         `json:"id"`
	Chore chore.Chore `json:"chore"`
}

type occEntry struct {
	ID   int    `json:"id"`
	Date string `json:"date"`
}

// encodeState renders the in-memory maps as a snapshot document, sorted by
// id so saves are deterministic.
func encodeState(chores map[int]chore.Chore, upcoming map[int]time.Time, lastID int, cursor time.Time) stateDoc {
	doc := stateDoc{
		Chores:      make([]choreEntry, 0, len(chores)),
		Upcoming:    make([]occEntry, 0, len(upcoming)),
		LastChoreID: lastID,
	}
	for id, c := range chores {
		doc.Chores = append(doc.Chores, choreEntry{ID: id, Chore: c})
	}
	for id, d := range upcoming {
		doc.Upcoming = append(doc.Upcoming, occEntry{ID: id, Date: calendar.FormatDate(d)})
	}
	sort.Slice(doc.Chores, func(i, j int) bool { return doc.Chores[i].ID < doc.Chores[j].ID })
	sort.Slice(doc.Upcoming, func(i, j int) bool { return doc.Upcoming[i].ID < doc.Upcoming[j].ID })
	if !cursor.IsZero() {
		s := calendar.FormatDate(calendar.DateOf(cursor))
		doc.NextRemindDate = &s
	}
	return doc
}

// decodeState parses a snapshot document back into the in-memory maps. The
// returned cursor date is zero when next_remind_date was null.
func decodeState(doc stateDoc) (map[int]chore.Chore, map[int]time.Time, int, time.Time, error) {
	chores := make(map[int]chore.Chore, len(doc.Chores))
	for _, e := range doc.Chores {
		if _, dup := chores[e.ID]; dup {
			return nil, nil, 0, time.Time{}, fmt.Errorf("duplicate chore id %d", e.ID)
		}
		chores[e.ID] = e.Chore
	}
	upcoming := make(map[int]time.Time, len(doc.Upcoming))
	for _, e := range doc.Upcoming {
		d, err := calendar.ParseDate(e.Date)
		if err != nil {
			return nil, nil, 0, time.Time{}, fmt.Errorf("occurrence %d: %w", e.ID, err)
		}
		upcoming[e.ID] = d
	}
	var cursorDate time.Time
	if doc.NextRemindDate != nil {
		d, err := calendar.ParseDate(*doc.NextRemindDate)
		if err != nil {
			return nil, nil, 0, time.Time{}, fmt.Errorf("next_remind_date: %w", err)
		}
		cursorDate = d
	}
	return chores, upcoming, doc.LastChoreID, cursorDate, nil
}
