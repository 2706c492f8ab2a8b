package inspect

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	yaml "gopkg.in/yaml.v3"

	"uicss/state"
	"uicss/style"
	"uicss/transition"
	"uicss/tree"
)

// ElementStyles is resolve command output for a single element.
type ElementStyles struct {
	Path          string           `yaml:"path"`
	State         tree.PseudoState `yaml:"state,omitempty"`
	Resolved      style.Style      `yaml:"resolved"`
	Displayed     style.Style      `yaml:"displayed"`
	Transitioning bool             `yaml:"transitioning,omitempty"`
	Animating     bool             `yaml:"animating,omitempty"`
}

// Report is the document produced by resolve command.
type Report struct {
	Markup   string          `yaml:"markup"`
	Time     float64         `yaml:"time"`
	Viewport style.Viewport  `yaml:"viewport"`
	Elements []ElementStyles `yaml:"elements"`
}

func codePage(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	cp, err := ianaindex.IANA.Encoding(name)
	if err != nil || cp == nil {
		log.Warn("Unknown character set name, ignoring", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(cp)
	log.Debug("Forcing markup encoding", zap.String("charset", n))
	return cp
}

// Resolve loads markup, applies requested pseudo-states and runs frames for
// configured duration (or --at seconds), then writes element styles as YAML.
func Resolve(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resolve")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no markup has been specified")
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	duration := env.Cfg.Styling.Duration
	if at := cmd.String("at"); len(at) > 0 {
		v, err := strconv.ParseFloat(at, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("bad time %q", at)
		}
		duration = v
	}
	env.Sheets = cmd.StringSlice("css")
	env.CodePage = codePage(cmd.String("encoding"), log)

	log.Info("Processing starting", zap.String("markup", src), zap.Strings("css", env.Sheets))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	s, err := newSession(env, sessionOptions{markup: src, sheets: env.Sheets, encoding: env.CodePage}, log)
	if err != nil {
		return err
	}
	storeInputs(env, s, log)

	rpt, err := s.resolve(ctx, resolveOptions{
		hover:     cmd.StringSlice("hover"),
		focus:     cmd.StringSlice("focus"),
		disable:   cmd.StringSlice("disable"),
		duration:  duration,
		frameRate: env.Cfg.Styling.FrameRate,
	})
	if err != nil {
		return err
	}
	rpt.Viewport = env.Cfg.Styling.Viewport.Viewport()

	data, err := yaml.Marshal(rpt)
	if err != nil {
		return fmt.Errorf("unable to marshal styles: %w", err)
	}
	env.Rpt.StoreData("styles.yaml", data)

	if text := cmd.String("template"); len(text) > 0 {
		if data, err = render(rpt, text); err != nil {
			return err
		}
	}

	log.Debug("Writing styles", zap.String("file", destName(dst)), zap.Int("elements", len(rpt.Elements)))
	return writeDestination(dst, data)
}

type resolveOptions struct {
	hover, focus, disable []string
	duration              float64
	frameRate             int
}

// resolve produces first frame at time 0, applies pseudo-states and steps
// frames until duration, so transitions triggered by state changes are
// visible in the result.
func (s *session) resolve(ctx context.Context, opts resolveOptions) (*Report, error) {
	s.sys.Frame(0)

	for _, group := range []struct {
		sels []string
		flag tree.Flag
	}{
		{opts.disable, tree.FlagDisabled},
		{opts.hover, tree.FlagHovered},
		{opts.focus, tree.FlagFocused},
	} {
		for _, sel := range group.sels {
			n, err := s.dispatch(sel, group.flag)
			if err != nil {
				return nil, err
			}
			s.log.Debug("State applied", zap.String("selector", sel), zap.Stringer("flag", group.flag), zap.Int("elements", n))
		}
	}

	// transitions caused by state changes start here
	s.sys.Frame(0)

	clock := transition.NewManualClock(0)
	step := 1 / float64(max(opts.frameRate, 1))
	for clock.Now() < opts.duration {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.sys.Frame(min(clock.Advance(step), opts.duration))
	}

	rpt := &Report{Markup: filepath.Base(s.markup), Time: opts.duration}
	t := s.sys.Tree()
	t.Walk(func(h tree.Handle, e *tree.Element) bool {
		snap, ok := s.sys.Snapshot(h)
		if !ok {
			return true
		}
		rpt.Elements = append(rpt.Elements, ElementStyles{
			Path:          describe(t, h),
			State:         e.State(),
			Resolved:      snap.Resolved,
			Displayed:     snap.Displayed,
			Transitioning: snap.Transitioning,
			Animating:     snap.Animating,
		})
		return true
	})
	return rpt, nil
}

func storeInputs(env *state.LocalEnv, s *session, log *zap.Logger) {
	if env.Rpt == nil {
		return
	}
	base := filepath.Dir(s.markup)
	for _, p := range append([]string{s.markup}, s.reg.Paths()...) {
		if err := env.Rpt.StoreCopy(path.Join("input", entryName(base, p)), p); err != nil {
			log.Debug("Unable to store input in report", zap.String("file", p), zap.Error(err))
		}
	}
}

// entryName flattens file path relative to markup directory into a single
// archive entry name, "css/main.css" becomes "css-main.css".
func entryName(base, p string) string {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		rel = filepath.Base(p)
	}
	ext := filepath.Ext(rel)
	return slug.Make(strings.TrimSuffix(filepath.ToSlash(rel), ext)) + ext
}
