package tree

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"uicss/css"
)

// MarkupOptions controls LoadMarkup.
type MarkupOptions struct {
	// Encoding forces input encoding. When nil encoding is taken from XML
	// declaration.
	Encoding encoding.Encoding
	// SheetRef converts stylesheet reference into asset id. When nil
	// stylesheet references are ignored.
	SheetRef func(href string) (uuid.UUID, bool)
	// Parser is used for style attributes, default one is created when nil.
	Parser *css.Parser
	Log    *zap.Logger
}

// elements which never become part of the tree
var skipTags = []string{"head", "link", "style", "script", "meta", "title"}

// LoadMarkup builds tree from XML or XHTML document. It reads id, class and
// style attributes, initial pseudo-state from disabled, readonly, checked and
// open attributes. Stylesheets from <link rel="stylesheet"> apply to the whole
// document, data-css attribute adds stylesheets for element subtree.
func LoadMarkup(r io.Reader, opts MarkupOptions) (*Tree, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("markup")
	parser := opts.Parser
	if parser == nil {
		parser = css.NewParser(log)
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if opts.Encoding != nil {
		r = opts.Encoding.NewDecoder().Reader(r)
		// input is already UTF-8, ignore declared encoding
		doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read markup: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("markup has no root element")
	}

	var docSheets []uuid.UUID
	if opts.SheetRef != nil {
		for _, link := range doc.FindElements("//link") {
			if !strings.EqualFold(link.SelectAttrValue("rel", ""), "stylesheet") {
				continue
			}
			href := link.SelectAttrValue("href", "")
			if id, ok := opts.SheetRef(href); ok {
				docSheets = append(docSheets, id)
			} else {
				log.Debug("Ignoring stylesheet reference", zap.String("href", href))
			}
		}
	}

	l := &loader{t: New(), opts: opts, parser: parser, log: log}
	l.build(Nil, root, docSheets)
	log.Debug("Markup loaded", zap.Int("elements", l.t.Len()), zap.Int("sheets", len(docSheets)))
	return l.t, nil
}

type loader struct {
	t      *Tree
	opts   MarkupOptions
	parser *css.Parser
	log    *zap.Logger
}

func (l *loader) build(parent Handle, el *etree.Element, sheets []uuid.UUID) {
	if slices.Contains(skipTags, strings.ToLower(el.Tag)) {
		return
	}

	if refs := el.SelectAttrValue("data-css", ""); refs != "" && l.opts.SheetRef != nil {
		sheets = slices.Clone(sheets)
		for _, href := range strings.FieldsFunc(refs, func(r rune) bool { return r == ',' || r == ' ' }) {
			if id, ok := l.opts.SheetRef(href); ok {
				sheets = append(sheets, id)
			} else {
				l.log.Debug("Ignoring stylesheet reference", zap.String("href", href))
			}
		}
	}

	e := Element{
		Tag:     el.Tag,
		ID:      el.SelectAttrValue("id", ""),
		Classes: strings.Fields(el.SelectAttrValue("class", "")),
		Sheets:  slices.Clone(sheets),
	}
	if text := el.SelectAttrValue("style", ""); text != "" {
		s, err := l.parser.ParseInline(text)
		if err != nil {
			l.log.Debug("Problems in style attribute", zap.String("tag", el.Tag), zap.Error(err))
		}
		if !s.IsEmpty() {
			e.Inline = &s
		}
	}
	h := l.t.Add(parent, e)

	for _, a := range []struct {
		attr string
		flag Flag
	}{
		{"disabled", FlagDisabled},
		{"readonly", FlagReadOnly},
		{"checked", FlagChecked},
		{"open", FlagOpen},
	} {
		if el.SelectAttr(a.attr) != nil {
			l.t.Apply(Event{Target: h, Flag: a.flag, On: true})
		}
	}

	for _, c := range el.ChildElements() {
		l.build(h, c, sheets)
	}
}
