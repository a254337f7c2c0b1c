package router

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dailiesbot/internal/config"
	"dailiesbot/internal/scheduler"
	"dailiesbot/internal/storage"
	kit "dailiesbot/internal/transport"
	"dailiesbot/pkg/logx"
)

const testChat = int64(10)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type harness struct {
	router  *Router
	cfgm    *config.Manager
	replies []string
}

func (h *harness) send(text string) {
	h.router.Handle(context.Background(), &kit.Message{ChatID: testChat, FromID: 1, Text: text})
}

func (h *harness) sendFrom(chatID int64, text string) {
	h.router.Handle(context.Background(), &kit.Message{ChatID: chatID, FromID: 1, Text: text})
}

func (h *harness) lastReply(t *testing.T) string {
	t.Helper()
	if len(h.replies) == 0 {
		t.Fatal("expected a reply")
	}
	return h.replies[len(h.replies)-1]
}

// Monday morning, before the reminder time.
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	body := `
telegram:
  token: "123:abc"
  remind_chat: 10
reminder:
  time: "09:00:00"
  timezone: "UTC"
  prefix: "!"
logging:
  level: debug
  console: true
`
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfgm := config.NewManager(cfgPath)
	if _, err := cfgm.Load(); err != nil {
		t.Fatalf("load config: %v", err)
	}

	st, err := storage.Open(storage.Config{Driver: "file", Path: filepath.Join(dir, "store.json")}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc, err := scheduler.New(context.Background(),
		scheduler.Config{RemindTime: "09:00:00", Timezone: "UTC"},
		st, fixedClock{now: testNow}, logx.Nop(), nil)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	h := &harness{cfgm: cfgm}
	h.router = New(cfgm, svc, func(_ context.Context, _ kit.ChatTarget, text string) {
		h.replies = append(h.replies, text)
	}, "1.2.3", logx.Nop())
	return h
}

func TestIgnoresNonCommands(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("just chatting")          // no prefix
	h.send("!frobnicate")            // unknown command
	h.sendFrom(99, "!ping")          // wrong chat
	h.send("!")                      // prefix only

	if len(h.replies) != 0 {
		t.Errorf("expected silence, got %v", h.replies)
	}
}

func TestPingAndVersion(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!ping")
	if got := h.lastReply(t); got != "pong" {
		t.Errorf("ping reply = %q", got)
	}
	h.send("!version")
	if got := h.lastReply(t); got != "Dailies Bot v1.2.3" {
		t.Errorf("version reply = %q", got)
	}
}

func TestAddListUpcoming(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!list")
	if got := h.lastReply(t); got != "No chores have been added..." {
		t.Errorf("empty list reply = %q", got)
	}

	h.send(`!add "Do the dishes" <@42> every 2d`)
	if got := h.lastReply(t); got != "Successfully added new chore `Do the dishes` for <@42> (id: 0)" {
		t.Errorf("add reply = %q", got)
	}

	h.send("!list")
	got := h.lastReply(t)
	if !strings.Contains(got, "List of all chores:") || !strings.Contains(got, `0: "Do the dishes" <@42> every 2 days`) {
		t.Errorf("list reply = %q", got)
	}

	h.send("!upcoming")
	got = h.lastReply(t)
	// Added Monday: the first occurrence is Tuesday, one day out.
	if !strings.Contains(got, "2025/06/03: 1 day(s) until Do the dishes (<@42>)") {
		t.Errorf("upcoming reply = %q", got)
	}
}

func TestAddUsageAndErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!add")
	if got := h.lastReply(t); !strings.Contains(got, "Every *N* days: `!add") {
		t.Errorf("bare add reply = %q", got)
	}

	h.send("!add BadTitle <@1> every 2x")
	if got := h.lastReply(t); !strings.Contains(got, "2x") || !strings.Contains(got, "Invalid duration") {
		t.Errorf("bad duration reply = %q", got)
	}
}

func TestDeleteAndDelay(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!delete 99")
	if got := h.lastReply(t); got != "Chore ID not found: 99" {
		t.Errorf("delete unknown reply = %q", got)
	}
	h.send("!delete abc")
	if got := h.lastReply(t); got != "Chore ID not found: `abc`" {
		t.Errorf("delete garbage reply = %q", got)
	}

	h.send(`!add "Water plants" <@5> every 3d`)
	h.send("!delay 0 2w")
	// Tomorrow (Jun 3) + 14 days.
	if got := h.lastReply(t); got != "Chore has been delayed until 2025/06/17" {
		t.Errorf("delay reply = %q", got)
	}

	h.send("!delay 0 2x")
	if got := h.lastReply(t); !strings.Contains(got, "Invalid duration") {
		t.Errorf("delay bad token reply = %q", got)
	}

	h.send("!delete 0")
	if got := h.lastReply(t); got != "Chore has successfully been deleted." {
		t.Errorf("delete reply = %q", got)
	}
}

func TestConfigGetSet(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!config get prefix")
	if got := h.lastReply(t); got != "`prefix` is set to `!`" {
		t.Errorf("config get reply = %q", got)
	}

	h.send("!config set remind_time 21:00:00")
	if got := h.lastReply(t); got != "Successfully set `remind_time` to `21:00:00`" {
		t.Errorf("config set reply = %q", got)
	}
	if got := h.cfgm.Get().Reminder.Time; got != "21:00:00" {
		t.Errorf("committed remind time = %q", got)
	}

	h.send("!config set remind_time 9pm")
	if got := h.lastReply(t); !strings.Contains(got, "Invalid time") {
		t.Errorf("config set bad value reply = %q", got)
	}

	h.send("!config get")
	if got := h.lastReply(t); !strings.Contains(got, "Usage:") {
		t.Errorf("config usage reply = %q", got)
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.send("!help")
	got := h.lastReply(t)
	for _, want := range []string{"!list", "!upcoming", "!add", "!delete", "!delay", "!config"} {
		if !strings.Contains(got, want) {
			t.Errorf("help missing %q: %q", want, got)
		}
	}
}
