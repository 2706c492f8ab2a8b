// Package inspect implements command line actions: it loads markup and
// stylesheets from disk and drives styling system over them.
package inspect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"uicss/assets"
	"uicss/cache"
	"uicss/css"
	"uicss/selector"
	"uicss/state"
	"uicss/styling"
	"uicss/transition"
	"uicss/tree"
)

// session is everything loaded for a single markup document.
type session struct {
	log    *zap.Logger
	markup string
	reg    *assets.Registry
	sys    *styling.System
}

type sessionOptions struct {
	markup   string
	sheets   []string
	encoding encoding.Encoding
	observer styling.Observer
	clock    transition.Clock
}

// newSession loads markup, registers stylesheets it references and extra
// sheets given on command line. Extra sheets follow document ones, so they
// win specificity ties.
func newSession(env *state.LocalEnv, opts sessionOptions, log *zap.Logger) (*session, error) {
	markup, err := filepath.Abs(opts.markup)
	if err != nil {
		return nil, err
	}
	reg := assets.NewRegistry()
	base := filepath.Dir(markup)

	extra := make([]uuid.UUID, 0, len(opts.sheets))
	for _, p := range opts.sheets {
		id, err := reg.Register(p)
		if err != nil {
			return nil, err
		}
		extra = append(extra, id)
	}

	data, err := os.ReadFile(markup)
	if err != nil {
		return nil, fmt.Errorf("unable to read markup: %w", err)
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return nil, fmt.Errorf("markup %q is %s (%s), not XML", opts.markup, kind.Extension, kind.MIME.Value)
	}

	parser := css.NewParser(log)
	t, err := tree.LoadMarkup(bytes.NewReader(data), tree.MarkupOptions{
		Encoding: opts.encoding,
		SheetRef: func(href string) (uuid.UUID, bool) {
			if strings.Contains(href, "://") {
				return uuid.Nil, false
			}
			if !filepath.IsAbs(href) {
				href = filepath.Join(base, filepath.FromSlash(href))
			}
			id, err := reg.Register(href)
			return id, err == nil
		},
		Parser: parser,
		Log:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to load markup %q: %w", opts.markup, err)
	}
	if len(extra) > 0 {
		t.Walk(func(h tree.Handle, e *tree.Element) bool {
			t.SetSheets(h, append(e.Sheets, extra...))
			return true
		})
	}
	if ce := log.Check(zap.DebugLevel, "Markup loaded"); ce != nil {
		ce.Write(zap.Int("elements", t.Len()), zap.String("tree", t.Dump()))
	}

	so := styling.Options{
		Viewport: env.Cfg.Styling.Viewport.Viewport(),
		Clock:    opts.clock,
		Observer: opts.observer,
		Log:      log,
	}
	if so.DefaultTransition, err = env.Cfg.Styling.Transition(parser); err != nil {
		return nil, err
	}
	for _, p := range reg.Paths() {
		if _, err := os.Stat(p); err != nil {
			log.Warn("Stylesheet is not available yet", zap.String("file", p))
		}
	}
	return &session{
		log:    log,
		markup: markup,
		reg:    reg,
		sys:    styling.New(t, cache.New(reg, log), so),
	}, nil
}

// dispatch turns flag on for every element matching selector.
func (s *session) dispatch(sel string, flag tree.Flag) (int, error) {
	chain := selector.Parse(sel)
	if len(chain) == 0 {
		return 0, fmt.Errorf("bad selector %q", sel)
	}
	t := s.sys.Tree()
	var n int
	for _, h := range t.Find(func(*tree.Element) bool { return true }) {
		if selector.Matches(chain, t, h) && s.sys.Dispatch(tree.Event{Target: h, Flag: flag, On: true}) {
			n++
		}
	}
	return n, nil
}

// describe builds readable element path, tag#id.class for every ancestor.
func describe(t *tree.Tree, h tree.Handle) string {
	var parts []string
	for cur := h; cur.Valid(); {
		e := t.Get(cur)
		if e == nil {
			break
		}
		part := e.Tag
		if e.ID != "" {
			part += "#" + e.ID
		}
		for _, c := range e.Classes {
			part += "." + c
		}
		parts = append(parts, part)
		cur = e.Parent()
	}
	slices.Reverse(parts)
	return strings.Join(parts, " > ")
}
