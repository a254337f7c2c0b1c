// Package app wires the bot together: config manager, logging, storage,
// the chore scheduler, the notifier pipeline, the command router and the
// Telegram adapter, all under one supervisor.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"dailiesbot/internal/config"
	"dailiesbot/internal/eventbus"
	"dailiesbot/internal/notifier"
	"dailiesbot/internal/router"
	"dailiesbot/internal/runtime/supervisor"
	"dailiesbot/internal/scheduler"
	"dailiesbot/internal/storage"
	kit "dailiesbot/internal/transport"
	"dailiesbot/internal/transport/telegram"
	"dailiesbot/pkg/logx"
)

const Version = "0.2.1"

type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log   logx.Logger
	logs  *logx.Service
	bus   eventbus.Bus
	store storage.Store

	adapter kit.Adapter

	sched  *scheduler.Service
	worker *scheduler.Worker
	notif  *notifier.Service
	router *router.Router

	updates chan kit.Update
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}
	log.Info("storage opened", logx.String("driver", sc.Driver), logx.String("path", sc.Path))

	sched, err := scheduler.New(context.Background(), scheduler.Config{
		RemindTime: cfg.Reminder.Time,
		Timezone:   cfg.Reminder.Timezone,
	}, store, scheduler.SystemClock{}, log.With(logx.String("comp", "scheduler")), bus)
	if err != nil {
		store.Close()
		return nil, err
	}

	ncfg, err := mapNotifierConfig(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	notif := notifier.New(ncfg, ad, log.With(logx.String("comp", "notifier")), bus)

	a := &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		store:   store,
		adapter: ad,
		sched:   sched,
		notif:   notif,
		updates: make(chan kit.Update, 256),
	}

	a.router = router.New(cfgm, sched, a.sendReply, Version,
		log.With(logx.String("comp", "router")))
	a.worker = scheduler.NewWorker(sched, scheduler.SystemClock{},
		log.With(logx.String("comp", "sweep")), a.deliverSweep)

	return a, nil
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) sendReply(ctx context.Context, to kit.ChatTarget, text string) {
	err := a.notif.Notify(ctx, notifier.Notification{Target: to, Text: text, Key: "reply"})
	if err != nil {
		a.log.Warn("reply not queued", logx.Int64("chat", to.ChatID), logx.Err(err))
	}
}

// deliverSweep posts the rendered sweep messages into the reminder chat, in
// order, through the notifier queue.
func (a *App) deliverSweep(ctx context.Context, messages []string) {
	cfg := a.cfgm.Get()
	if cfg == nil || cfg.Telegram.RemindChat == 0 {
		a.log.Warn("sweep fired but telegram.remind_chat is not configured; dropping messages",
			logx.Int("messages", len(messages)))
		return
	}
	to := kit.ChatTarget{ChatID: cfg.Telegram.RemindChat}
	for _, m := range messages {
		if err := a.notif.Notify(ctx, notifier.Notification{Target: to, Text: m, Key: "sweep"}); err != nil {
			a.log.Error("sweep message not queued", logx.Err(err))
		}
	}
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	// Transactional config reload: validate before commit/publish.
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return cfg.Validate()
	})

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}
	a.notif.Start(a.sup.Context())
	if err := a.worker.Start(a.sup.Context()); err != nil {
		return err
	}

	a.sup.Go0("commands.dispatch", func(c context.Context) {
		a.router.Run(c, a.updates)
	})

	// Debug-level trace of bus events (chore mutations, sweeps, send
	// outcomes). Currently the only subscriber; components can subscribe
	// themselves if they ever need to react.
	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})

	// Hot reload fan-out.
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		last := a.cfgm.Get()
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts: keep only the latest config.
				for {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						goto APPLY
					}
				}
			APPLY:
				a.applyConfig(c, last, newCfg)
				last = newCfg
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	a.log.Info("bot started",
		logx.String("version", Version),
		logx.Time("next_sweep", a.sched.NextSweep()))
	return nil
}

// applyConfig pushes a validated config into the running services. Storage
// changes are the one thing that cannot apply live.
func (a *App) applyConfig(ctx context.Context, old, cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	if old != nil && old.Reminder != cfg.Reminder {
		err := a.sched.Apply(ctx, scheduler.Config{
			RemindTime: cfg.Reminder.Time,
			Timezone:   cfg.Reminder.Timezone,
		})
		if err != nil {
			a.log.Warn("invalid reminder config; keeping previous", logx.Err(err))
		} else {
			// Restart the sweep worker so its cron runs in the new timezone.
			a.worker.Stop()
			if err := a.worker.Start(a.sup.Context()); err != nil {
				a.log.Error("sweep worker restart failed", logx.Err(err))
			}
		}
	}

	if ncfg, err := mapNotifierConfig(cfg); err != nil {
		a.log.Warn("invalid notifier config; keeping previous", logx.Err(err))
	} else {
		a.notif.Apply(ncfg)
	}

	if old != nil && old.Storage != cfg.Storage {
		oldSC, err1 := mapStorageConfig(old)
		newSC, err2 := mapStorageConfig(cfg)
		if err1 != nil || err2 != nil || oldSC != newSC {
			a.log.Warn("storage config changed; restart required for changes to take effect")
		}
	}

	a.log.Info("config reloaded", logx.Time("next_sweep", a.sched.NextSweep()))
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	a.log.Info("stopping")

	// Cancel the run context first so background loops start unwinding.
	a.sup.Cancel()

	// Run a shutdown step with an upper bound so one component cannot stall
	// the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()
		stepCtx := ctx
		var cancel context.CancelFunc
		if max > 0 {
			if dl, ok := ctx.Deadline(); ok {
				if rem := time.Until(dl); rem < max {
					max = rem
				}
			}
			if max > 0 {
				stepCtx, cancel = context.WithTimeout(ctx, max)
				defer cancel()
			}
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			} else {
				a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
			}
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name), logx.Duration("elapsed", time.Since(start)))
		}
	}

	step("sweep", 2*time.Second, func(context.Context) error { a.worker.Stop(); return nil })
	step("notifier", 3*time.Second, func(c context.Context) error { a.notif.Stop(c); return nil })
	step("adapter", 2*time.Second, func(c context.Context) error { return a.adapter.Stop(c) })
	step("storage", 1*time.Second, func(context.Context) error { return a.store.Close() })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		a.logs.Close()
	}
	return nil
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	sc := storage.Config{Driver: "file", Path: "./dailies.state"}
	s := cfg.Storage
	if s == nil {
		return sc, nil
	}
	if s.Driver != "" {
		sc.Driver = s.Driver
	}
	if s.Path != "" {
		sc.Path = s.Path
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", s.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	sc.BusyTimeout = busy
	return sc, nil
}

func mapNotifierConfig(cfg *config.Config) (notifier.Config, error) {
	n := cfg.Notifier
	if n == nil {
		return notifier.Config{}, nil
	}
	retryBase, err := config.ParseDurationField("notifier.retry_base", n.RetryBase)
	if err != nil {
		return notifier.Config{}, err
	}
	retryMaxDelay, err := config.ParseDurationField("notifier.retry_max_delay", n.RetryMaxDelay)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		QueueSize:     n.QueueSize,
		RatePerSec:    n.RatePerSec,
		RetryMax:      n.RetryMax,
		RetryBase:     retryBase,
		RetryMaxDelay: retryMaxDelay,
	}, nil
}
