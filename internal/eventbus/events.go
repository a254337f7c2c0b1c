package eventbus

import "time"

// Event types published by the scheduler and notifier.
const (
	TypeChoreAdded    = "chore.added"
	TypeChoreDeleted  = "chore.deleted"
	TypeChoreDelayed  = "chore.delayed"
	TypeSweepFired    = "sweep.fired"
	TypeNotifySent    = "notify.sent"
	TypeNotifyFailed  = "notify.failed"
	TypeNotifyDropped = "notify.dropped"
)

// ChoreEvent describes a single chore mutation.
type ChoreEvent struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	User  int64     `json:"user"`
	Next  time.Time `json:"next,omitempty"`
}

// SweepEvent summarizes one firing sweep.
type SweepEvent struct {
	Due     int       `json:"due"`
	Deleted int       `json:"deleted"`
	Cursor  time.Time `json:"cursor"`
}

// NotifyEvent describes one outbound delivery attempt.
type NotifyEvent struct {
	ChatID int64  `json:"chat_id"`
	Key    string `json:"key"`
	Error  string `json:"error,omitempty"`
}
