package scheduler

import (
	"context"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"dailiesbot/internal/chore"
	"dailiesbot/pkg/logx"
)

const (
	msgNoChores = "No chores for today!"
	msgDailies  = "Here are your dailies:"
)

// Worker drives the sweep on a one-minute cron tick in the scheduler's
// timezone. Fired due lists are rendered and handed to deliver; the actual
// sending (rate limits, retries) is the notifier's problem.
type Worker struct {
	svc     *Service
	clock   Clock
	log     logx.Logger
	deliver func(ctx context.Context, messages []string)

	mu sync.Mutex
	c  *cron.Cron
}

func NewWorker(svc *Service, clock Clock, log logx.Logger, deliver func(ctx context.Context, messages []string)) *Worker {
	if clock == nil {
		clock = SystemClock{}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Worker{svc: svc, clock: clock, log: log, deliver: deliver}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.c != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(w.svc.Location()))
	if _, err := c.AddFunc("* * * * *", func() { w.Tick(ctx) }); err != nil {
		return err
	}
	c.Start()
	w.c = c
	w.log.Info("sweep worker started", logx.Time("next_sweep", w.svc.NextSweep()))
	return nil
}

func (w *Worker) Stop() {
	w.mu.Lock()
	c := w.c
	w.c = nil
	w.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Tick runs one sweep check. Exported so tests and the app can trigger a
// check without waiting for the cron edge.
func (w *Worker) Tick(ctx context.Context) {
	due, fired, err := w.svc.Sweep(ctx, w.clock.Now())
	if err != nil {
		w.log.Error("sweep failed", logx.Err(err))
		return
	}
	if !fired {
		return
	}
	if w.deliver != nil {
		w.deliver(ctx, RenderDue(due))
	}
}

// RenderDue turns a due list into outbound messages: one summary line, then
// one itemized line per user.
func RenderDue(due DueList) []string {
	if due.Empty() {
		return []string{msgNoChores}
	}
	messages := []string{msgDailies}
	for _, user := range due.Users() {
		titles := make([]string, 0, len(due[user]))
		for _, e := range due[user] {
			titles = append(titles, e.Chore.Title)
		}
		messages = append(messages, chore.Mention(user)+" "+strings.Join(titles, ", "))
	}
	return messages
}
