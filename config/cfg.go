package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"uicss/css"
	"uicss/style"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ViewportConfig struct {
		Width  float64 `yaml:"width" validate:"gt=0"`
		Height float64 `yaml:"height" validate:"gt=0"`
	}

	StylingConfig struct {
		Viewport ViewportConfig `yaml:"viewport"`
		// DefaultTransition uses CSS transition shorthand syntax, it is applied
		// to elements which styles do not specify transition. Empty value
		// disables implicit transitions.
		DefaultTransition string `yaml:"default_transition"`
		// FrameRate and Duration control how many frames resolve command
		// produces before writing results.
		FrameRate int     `yaml:"frame_rate" validate:"min=1,max=240"`
		Duration  float64 `yaml:"duration" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Styling   StylingConfig  `yaml:"styling"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func (c *ViewportConfig) Viewport() style.Viewport {
	return style.Viewport{Width: c.Width, Height: c.Height}
}

// Transition parses default transition, nil is returned when none is
// configured.
func (c *StylingConfig) Transition(p *css.Parser) (*style.TransitionSpec, error) {
	if len(c.DefaultTransition) == 0 {
		return nil, nil
	}
	s, err := p.ParseInline("transition: " + c.DefaultTransition)
	if err != nil {
		return nil, fmt.Errorf("bad default transition %q: %w", c.DefaultTransition, err)
	}
	if s.Transition == nil {
		return nil, fmt.Errorf("bad default transition %q", c.DefaultTransition)
	}
	return s.Transition, nil
}

// Frames returns number of frames and frame step in seconds for resolve
// command. There is always at least one frame.
func (c *StylingConfig) Frames() (int, float64) {
	step := 1 / float64(max(c.FrameRate, 1))
	return int(math.Round(c.Duration/step)) + 1, step
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
