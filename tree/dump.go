package tree

import (
	"fmt"
	"strings"
)

// Dump renders tree as indented text, one element per line with its
// pseudo-state, number of stylesheets and inline declarations marker. Used
// for debug logging.
func (t *Tree) Dump() string {
	w := &strings.Builder{}
	depth := map[Handle]int{}
	t.Walk(func(h Handle, e *Element) bool {
		d := 0
		if e.parent != Nil {
			d = depth[e.parent] + 1
		}
		depth[h] = d
		for range d {
			w.WriteString("  ")
		}
		w.WriteString(e.Tag)
		if e.ID != "" {
			w.WriteString("#" + e.ID)
		}
		for _, c := range e.Classes {
			w.WriteString("." + c)
		}
		if flags := e.state.flags(); len(flags) > 0 {
			fmt.Fprintf(w, " :%s", strings.Join(flags, ":"))
		}
		if len(e.Sheets) > 0 {
			fmt.Fprintf(w, " sheets=%d", len(e.Sheets))
		}
		if e.Inline != nil {
			w.WriteString(" inline")
		}
		w.WriteByte('\n')
		return true
	})
	return w.String()
}

func (s PseudoState) flags() []string {
	var res []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.Hovered, "hover"},
		{s.Focused, "focus"},
		{s.Disabled, "disabled"},
		{s.ReadOnly, "read-only"},
		{s.Checked, "checked"},
		{s.Invalid, "invalid"},
		{s.Open, "open"},
	} {
		if f.on {
			res = append(res, f.name)
		}
	}
	return res
}
