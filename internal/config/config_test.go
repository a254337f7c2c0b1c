package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const yamlConfig = `
telegram:
  token: "123:abc"
  remind_chat: -100123
reminder:
  time: "08:30:00"
  timezone: "America/New_York"
  prefix: "!"
logging:
  level: debug
  console: true
storage:
  driver: file
  path: ./dailies_store
`

func TestManagerParseYAML(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.yaml", yamlConfig))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.RemindChat != -100123 {
		t.Errorf("telegram section mismatch: %+v", cfg.Telegram)
	}
	if cfg.Reminder.Time != "08:30:00" || cfg.Reminder.Timezone != "America/New_York" {
		t.Errorf("reminder section mismatch: %+v", cfg.Reminder)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Errorf("storage section mismatch: %+v", cfg.Storage)
	}
	if got := m.Get(); got != cfg {
		t.Error("Get did not return the committed config")
	}
}

func TestManagerParseJSON(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.json",
		`{"telegram":{"token":"t","remind_chat":5},"reminder":{},"logging":{"level":"info","console":true,"file":{"enabled":false,"path":""}}}`))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// omitted reminder fields fall back to defaults
	if cfg.Reminder.Time != DefaultRemindTime || cfg.Reminder.Timezone != DefaultTimezone || cfg.Reminder.Prefix != DefaultPrefix {
		t.Errorf("defaults not applied: %+v", cfg.Reminder)
	}
}

func TestManagerRejectsUnknownField(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.yaml", yamlConfig+"\nbogus: 1\n"))
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	base := func() *Config {
		cfg := &Config{}
		cfg.Telegram.Token = "t"
		cfg.Normalize()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults pass", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = " " }, wantErr: "telegram.token"},
		{name: "bad time", mutate: func(c *Config) { c.Reminder.Time = "7am" }, wantErr: "reminder.time"},
		{name: "bad zone", mutate: func(c *Config) { c.Reminder.Timezone = "Mars/Olympus" }, wantErr: "reminder.timezone"},
		{name: "blank prefix", mutate: func(c *Config) { c.Reminder.Prefix = " " }, wantErr: "prefix"},
		{name: "bad poll timeout", mutate: func(c *Config) { c.Telegram.PollTimeout = "soon" }, wantErr: "poll_timeout"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestFieldGetSet(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Normalize()

	if err := cfg.SetField("remind_time", "21:15:00"); err != nil {
		t.Fatalf("SetField remind_time: %v", err)
	}
	if err := cfg.SetField("timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("SetField timezone: %v", err)
	}
	if err := cfg.SetField("prefix", "%"); err != nil {
		t.Fatalf("SetField prefix: %v", err)
	}
	if err := cfg.SetField("remind_chat", "-42"); err != nil {
		t.Fatalf("SetField remind_chat: %v", err)
	}

	for name, want := range map[string]string{
		"remind_time": "21:15:00",
		"timezone":    "Europe/Berlin",
		"prefix":      "%",
		"remind_chat": "-42",
	} {
		got, err := cfg.Field(name)
		if err != nil {
			t.Errorf("Field(%s): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Field(%s) = %q, want %q", name, got, want)
		}
	}

	bad := []struct{ name, value string }{
		{"remind_time", "9pm"},
		{"timezone", "Nowhere/Nothing"},
		{"prefix", "  "},
		{"remind_chat", "abc"},
		{"color", "blue"},
	}
	for _, tc := range bad {
		err := cfg.SetField(tc.name, tc.value)
		var fe *FieldError
		if err == nil {
			t.Errorf("SetField(%s, %q): expected error", tc.name, tc.value)
			continue
		}
		if !errors.As(err, &fe) {
			t.Errorf("SetField(%s, %q): error %v is not a FieldError", tc.name, tc.value, err)
		}
	}
}

func TestManagerSaveRoundTrip(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.yaml", yamlConfig))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := cfg.SetField("prefix", "%"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := m.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reread, err := NewManager(m.Path()).Load()
	if err != nil {
		t.Fatalf("reload saved config: %v", err)
	}
	if diff := cmp.Diff(cfg, reread); diff != "" {
		t.Errorf("saved config does not round-trip (-want +got):\n%s", diff)
	}
}
