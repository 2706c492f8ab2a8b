package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"

	"uicss/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("start time is not set")
	}
	if env.Log == nil {
		t.Fatal("logger must be usable before configuration is loaded")
	}
	// no-op logger, must not panic
	env.Log.Info("nowhere")

	if EnvFromContext(ctx) != env {
		t.Error("environment is not shared through context")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when environment is absent")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if up := env.Uptime(); up < time.Second || up > time.Minute {
		t.Errorf("Uptime() = %v", up)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	for i := range 2 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Fatalf("cycle %d: restore function is not set", i)
		}
		log.Print("from standard logger")
		env.RestoreStdLog()
	}
	if n := logs.FilterMessage("from standard logger").Len(); n != 2 {
		t.Errorf("redirected %d messages, want 2", n)
	}
}

func TestLocalEnv_NilLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("nothing to redirect to, restore function must stay nil")
	}
	env.RestoreStdLog()
}

func TestLocalEnv_Session(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	env.Cfg = cfg
	env.Sheets = []string{"main.css", "theme.css"}
	env.CodePage = charmap.Windows1251

	again := EnvFromContext(ctx)
	if again.Cfg.Styling.FrameRate != 60 {
		t.Errorf("FrameRate = %d", again.Cfg.Styling.FrameRate)
	}
	if len(again.Sheets) != 2 || again.CodePage != charmap.Windows1251 {
		t.Errorf("session fields lost: %v %v", again.Sheets, again.CodePage)
	}
	if again.Rpt != nil {
		t.Error("report is created only in debug mode")
	}
}
