// Package tree keeps UI elements in a flat arena. Parent and child links are
// integer handles, elements never own their ancestors.
package tree

import (
	"slices"

	"github.com/google/uuid"

	"uicss/style"
)

// Handle addresses element in the arena.
type Handle int

// Nil is the parent of root elements.
const Nil Handle = -1

func (h Handle) Valid() bool {
	return h >= 0
}

// PseudoState is dynamic interaction state of an element. It is changed only
// by Tree.Apply.
type PseudoState struct {
	Hovered  bool `yaml:"hovered,omitempty"`
	Focused  bool `yaml:"focused,omitempty"`
	Disabled bool `yaml:"disabled,omitempty"`
	ReadOnly bool `yaml:"readonly,omitempty"`
	Checked  bool `yaml:"checked,omitempty"`
	Invalid  bool `yaml:"invalid,omitempty"`
	Open     bool `yaml:"open,omitempty"`
}

type Element struct {
	Tag     string
	ID      string
	Classes []string
	// Sheets lists stylesheet assets applicable to the element, in cascade
	// order.
	Sheets []uuid.UUID
	// Inline holds declarations from the element own style attribute.
	Inline *style.Style

	parent   Handle
	children []Handle
	state    PseudoState
}

func (e *Element) Parent() Handle {
	return e.parent
}

func (e *Element) Children() []Handle {
	return e.children
}

func (e *Element) State() PseudoState {
	return e.state
}

func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes, name)
}

// Tree is an arena of elements. Handles stay valid for the life of the tree.
type Tree struct {
	nodes []Element
	roots []Handle
}

func New() *Tree {
	return &Tree{}
}

// Add appends element under parent (Nil for a root) and returns its handle.
// An invalid parent makes element a root.
func (t *Tree) Add(parent Handle, e Element) Handle {
	h := Handle(len(t.nodes))
	if !t.valid(parent) {
		parent = Nil
	}
	e.parent = parent
	e.children = nil
	t.nodes = append(t.nodes, e)
	if parent == Nil {
		t.roots = append(t.roots, h)
	} else {
		t.nodes[parent].children = append(t.nodes[parent].children, h)
	}
	return h
}

func (t *Tree) valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.nodes)
}

// Get returns element or nil for unknown handle.
func (t *Tree) Get(h Handle) *Element {
	if !t.valid(h) {
		return nil
	}
	return &t.nodes[h]
}

// Parent returns parent handle, false for roots and unknown handles.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	if !t.valid(h) {
		return Nil, false
	}
	p := t.nodes[h].parent
	return p, p != Nil
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Roots() []Handle {
	return t.roots
}

// Walk visits elements parent before children in document order. Returning
// false from fn skips element subtree.
func (t *Tree) Walk(fn func(h Handle, e *Element) bool) {
	var visit func(h Handle)
	visit = func(h Handle) {
		if !fn(h, &t.nodes[h]) {
			return
		}
		for _, c := range t.nodes[h].children {
			visit(c)
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}

// Find returns handles of elements satisfying predicate in document order.
func (t *Tree) Find(pred func(e *Element) bool) []Handle {
	var res []Handle
	t.Walk(func(h Handle, e *Element) bool {
		if pred(e) {
			res = append(res, h)
		}
		return true
	})
	return res
}

// SetSheets replaces stylesheet references of an element.
func (t *Tree) SetSheets(h Handle, ids []uuid.UUID) {
	if e := t.Get(h); e != nil {
		e.Sheets = slices.Clone(ids)
	}
}

// SetInline replaces element inline declarations.
func (t *Tree) SetInline(h Handle, s *style.Style) {
	if e := t.Get(h); e != nil {
		e.Inline = s
	}
}
