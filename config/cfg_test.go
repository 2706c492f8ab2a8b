package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"

	"uicss/css"
	"uicss/style"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Styling.Viewport.Width != 1280 || cfg.Styling.Viewport.Height != 720 {
		t.Errorf("Default viewport = %+v", cfg.Styling.Viewport)
	}
	if cfg.Styling.FrameRate != 60 {
		t.Errorf("Default frame rate = %d, want 60", cfg.Styling.FrameRate)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Default console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
styling:
  viewport:
    width: 400
    height: 800
  default_transition: "color 0.5s linear"
  frame_rate: 30
  duration: 1.5
logging:
  console:
    level: debug
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if vp := cfg.Styling.Viewport.Viewport(); vp != (style.Viewport{Width: 400, Height: 800}) {
		t.Errorf("Viewport() = %+v", vp)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}

	spec, err := cfg.Styling.Transition(css.NewParser(zap.NewNop()))
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if spec == nil || spec.Properties != style.PropColor || spec.Duration != 0.5 || spec.Timing.Kind != style.TimingLinear {
		t.Errorf("Transition() = %+v", spec)
	}

	frames, step := cfg.Styling.Frames()
	if frames != 46 {
		t.Errorf("Frames() = %d, want 46", frames)
	}
	if step != 1.0/30 {
		t.Errorf("frame step = %v", step)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\nstyling:\n  frame_rate: 24\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Styling.FrameRate != 24 {
		t.Errorf("FrameRate = %d, want 24", cfg.Styling.FrameRate)
	}
	if cfg.Styling.Viewport.Width != 1280 {
		t.Errorf("viewport default lost: %+v", cfg.Styling.Viewport)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nstyling:\n  frame_rate: 24\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad frame rate", "version: 1\nstyling:\n  frame_rate: 0\n"},
		{"bad viewport", "version: 1\nstyling:\n  viewport:\n    width: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Styling: StylingConfig{
			Viewport:          ViewportConfig{Width: 10, Height: 20},
			DefaultTransition: "all 1s",
			FrameRate:         10,
		},
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Styling != cfg.Styling {
		t.Errorf("Styling mismatch after dump/load: got %+v, want %+v", cfg2.Styling, cfg.Styling)
	}
}

func TestStylingConfig_Transition(t *testing.T) {
	p := css.NewParser(nil)

	var empty StylingConfig
	if spec, err := empty.Transition(p); err != nil || spec != nil {
		t.Errorf("empty transition = %+v, %v", spec, err)
	}

	bad := StylingConfig{DefaultTransition: "sideways forever"}
	if _, err := bad.Transition(p); err == nil {
		t.Error("expected error for bad transition")
	}
}

func TestStylingConfig_Frames(t *testing.T) {
	tests := []struct {
		rate     int
		duration float64
		want     int
	}{
		{60, 0, 1},
		{10, 1, 11},
		{0, 1, 2},
	}
	for _, tt := range tests {
		c := StylingConfig{FrameRate: tt.rate, Duration: tt.duration}
		if got, _ := c.Frames(); got != tt.want {
			t.Errorf("Frames(%d, %v) = %d, want %d", tt.rate, tt.duration, got, tt.want)
		}
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(dir, "app.log"), Mode: "overwrite"},
	}
	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file does not contain message: %q", data)
	}
}
