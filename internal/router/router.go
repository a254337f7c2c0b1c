// Package router consumes inbound chat updates, parses the prefix-stripped
// command surface, and turns scheduler results into chat replies.
package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
	"dailiesbot/internal/command"
	"dailiesbot/internal/config"
	"dailiesbot/internal/scheduler"
	kit "dailiesbot/internal/transport"
	"dailiesbot/pkg/logx"
)

// Router is wired with a reply sink rather than the notifier itself, so
// tests can capture replies directly.
type Router struct {
	log     logx.Logger
	cfgm    *config.Manager
	svc     *scheduler.Service
	reply   func(ctx context.Context, to kit.ChatTarget, text string)
	version string
}

func New(cfgm *config.Manager, svc *scheduler.Service, reply func(ctx context.Context, to kit.ChatTarget, text string), version string, log logx.Logger) *Router {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Router{log: log, cfgm: cfgm, svc: svc, reply: reply, version: version}
}

// Run consumes updates until ctx is cancelled or the channel closes.
func (r *Router) Run(ctx context.Context, updates <-chan kit.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case up, ok := <-updates:
			if !ok {
				return
			}
			if up.Message != nil {
				r.Handle(ctx, up.Message)
			}
		}
	}
}

// Handle processes one inbound message. Messages without the command prefix,
// from other chats, or naming unknown commands are silently ignored.
func (r *Router) Handle(ctx context.Context, msg *kit.Message) {
	cfg := r.cfgm.Get()
	if cfg == nil {
		return
	}
	prefix := cfg.Reminder.Prefix
	if !strings.HasPrefix(msg.Text, prefix) {
		return
	}
	if cfg.Telegram.RemindChat != 0 && msg.ChatID != cfg.Telegram.RemindChat {
		return
	}

	args := strings.Fields(msg.Text[len(prefix):])
	if len(args) == 0 {
		return
	}

	r.log.Debug("command received",
		logx.String("command", args[0]),
		logx.Int64("from", msg.FromID),
		logx.String("username", msg.FromUsername))

	reply, known := r.dispatch(ctx, cfg, args)
	if !known {
		return
	}
	if reply == "" {
		r.log.Warn("command produced an empty reply", logx.String("command", args[0]))
		return
	}
	if r.reply != nil {
		r.reply(ctx, kit.ChatTarget{ChatID: msg.ChatID, ThreadID: msg.ThreadID}, reply)
	}
}

func (r *Router) dispatch(ctx context.Context, cfg *config.Config, args []string) (string, bool) {
	switch args[0] {
	case "list":
		return r.list(), true
	case "upcoming":
		return r.upcoming(), true
	case "add":
		return r.add(ctx, cfg, args[1:]), true
	case "delete":
		return r.delete(ctx, args[1:]), true
	case "delay":
		return r.delay(ctx, args[1:]), true
	case "config":
		return r.config(cfg, args[1:]), true
	case "ping":
		return "pong", true
	case "version":
		return "Dailies Bot v" + r.version, true
	case "help":
		return r.help(cfg.Reminder.Prefix), true
	default:
		return "", false
	}
}

func (r *Router) list() string {
	entries := r.svc.List()
	if len(entries) == 0 {
		return "No chores have been added..."
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "List of all chores:")
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%d: %q %s %s",
			e.ID, e.Chore.Title, chore.Mention(e.Chore.User), e.Chore.Describe()))
	}
	return strings.Join(lines, "\n")
}

func (r *Router) upcoming() string {
	occ := r.svc.Upcoming()
	if len(occ) == 0 {
		return "No upcoming chores..."
	}
	today := r.svc.Today()
	lines := make([]string, 0, len(occ)+1)
	lines = append(lines, "List of all upcoming chores:")
	for _, o := range occ {
		days := calendar.DaysBetween(today, o.Date)
		lines = append(lines, fmt.Sprintf("%s: %d day(s) until %s (%s)",
			calendar.FormatDate(o.Date), days, o.Chore.Title, chore.Mention(o.Chore.User)))
	}
	return strings.Join(lines, "\n")
}

func (r *Router) add(ctx context.Context, cfg *config.Config, args []string) string {
	if len(args) == 0 {
		return addUsage(cfg.Reminder.Prefix)
	}
	c, err := command.ParseChore(args, r.svc.Today())
	if err != nil {
		var pe *command.ParseError
		if errors.As(err, &pe) {
			return pe.Msg
		}
		return err.Error()
	}
	id, err := r.svc.Add(ctx, c)
	if err != nil {
		r.log.Error("add failed", logx.Err(err))
		return "Failed to save the new chore, try again later."
	}
	return fmt.Sprintf("Successfully added new chore `%s` for %s (id: %d)",
		c.Title, chore.Mention(c.User), id)
}

func (r *Router) delete(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Must specify a chore ID (ex. `delete 5`)"
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("Chore ID not found: `%s`", args[0])
	}
	switch err := r.svc.Delete(ctx, id); {
	case errors.Is(err, scheduler.ErrNotFound):
		return fmt.Sprintf("Chore ID not found: %d", id)
	case err != nil:
		r.log.Error("delete failed", logx.Int("id", id), logx.Err(err))
		return "Failed to delete the chore, try again later."
	}
	return "Chore has successfully been deleted."
}

func (r *Router) delay(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return "Must specify a chore ID and duration (ex. `delay 5 2w`)"
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("Chore ID not found: `%s`", args[0])
	}
	next, err := r.svc.Delay(ctx, id, args[1])
	if err != nil {
		var pe *command.ParseError
		switch {
		case errors.As(err, &pe):
			return pe.Msg
		case errors.Is(err, scheduler.ErrNotFound):
			return fmt.Sprintf("Chore ID not found: %d", id)
		default:
			r.log.Error("delay failed", logx.Int("id", id), logx.Err(err))
			return "Failed to delay the chore, try again later."
		}
	}
	return "Chore has been delayed until " + calendar.FormatDate(next)
}

func (r *Router) config(cfg *config.Config, args []string) string {
	usage := "Usage: `config get <field>` or `config set <field> <value>` (fields: " +
		strings.Join(config.FieldNames(), ", ") + ")"
	if len(args) < 2 {
		return usage
	}
	switch args[0] {
	case "get":
		value, err := cfg.Field(args[1])
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("`%s` is set to `%s`", args[1], value)
	case "set":
		if len(args) < 3 {
			return usage
		}
		updated := *cfg
		if err := updated.SetField(args[1], args[2]); err != nil {
			return err.Error()
		}
		if err := updated.Validate(); err != nil {
			return err.Error()
		}
		if err := r.cfgm.Save(&updated); err != nil {
			r.log.Error("config save failed", logx.Err(err))
			return "Failed to save configuration, try again later."
		}
		return fmt.Sprintf("Successfully set `%s` to `%s`", args[1], args[2])
	default:
		return usage
	}
}

func addUsage(prefix string) string {
	return strings.Join([]string{
		fmt.Sprintf("Every *N* days: `%sadd <title> <user> every <days>d` (ex. `%sadd \"Do the dishes\" <@123> every 2d`)", prefix, prefix),
		fmt.Sprintf("Every *N* weeks: `%sadd <title> <user> every <weeks>w <weekday>` (ex. `%sadd \"Clean bathroom\" <@123> every 3w sunday`)", prefix, prefix),
		fmt.Sprintf("Every *N* months: `%sadd <title> <user> every <months>m <monthdays>` (ex. `%sadd \"Pay rent\" <@123> every 1m -3`)", prefix, prefix),
		fmt.Sprintf("On a specific date: `%sadd <title> <user> on <yyyy/mm/dd>` (ex. `%sadd \"Sign up for classes\" <@123> on 2025/06/01`)", prefix, prefix),
	}, "\n")
}

func (r *Router) help(prefix string) string {
	return strings.Join([]string{
		"Available commands:",
		fmt.Sprintf("`%slist` — all chores", prefix),
		fmt.Sprintf("`%supcoming` — pending occurrences", prefix),
		fmt.Sprintf("`%sadd` — add a chore (run bare for usage)", prefix),
		fmt.Sprintf("`%sdelete <id>` — remove a chore", prefix),
		fmt.Sprintf("`%sdelay <id> <duration>` — push an occurrence back (ex. `2d`, `1w`, `1m`)", prefix),
		fmt.Sprintf("`%sconfig get|set <field> [value]` — bot settings", prefix),
		fmt.Sprintf("`%sping`, `%sversion`", prefix, prefix),
	}, "\n")
}
