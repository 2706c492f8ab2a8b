// Package cache keeps parsed stylesheets keyed by asset id together with the
// reverse index of elements which use them.
package cache

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uicss/css"
	"uicss/tree"
)

// AssetID identifies stylesheet asset.
type AssetID = uuid.UUID

// Source supplies stylesheet text. Present is false when asset is not
// available (yet).
type Source interface {
	Load(id AssetID) (data []byte, name string, present bool)
}

type EventKind uint8

const (
	Loaded EventKind = iota
	Modified
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Event is asset change notification.
type Event struct {
	Kind EventKind
	ID   AssetID
}

// Cache is safe for concurrent use.
type Cache struct {
	log    *zap.Logger
	src    Source
	parser *css.Parser

	mu      sync.RWMutex
	entries map[AssetID]*css.Stylesheet
	users   map[AssetID]map[tree.Handle]struct{}
	tracked map[tree.Handle][]AssetID
	dirty   map[tree.Handle]struct{}
}

func New(src Source, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		log:     log.Named("style-cache"),
		src:     src,
		parser:  css.NewParser(log),
		entries: make(map[AssetID]*css.Stylesheet),
		users:   make(map[AssetID]map[tree.Handle]struct{}),
		tracked: make(map[tree.Handle][]AssetID),
		dirty:   make(map[tree.Handle]struct{}),
	}
}

// Sheet returns parsed stylesheet, parsing it on first request. Missing asset
// is not remembered and will be requested again next time.
func (c *Cache) Sheet(id AssetID) (*css.Stylesheet, bool) {
	c.mu.RLock()
	sheet, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return sheet, true
	}

	if c.src == nil {
		return nil, false
	}
	data, name, present := c.src.Load(id)
	if !present {
		c.log.Debug("Stylesheet is not available", zap.Stringer("id", id))
		return nil, false
	}
	sheet, err := c.parser.Parse(data, name)
	if err != nil {
		c.log.Debug("Stylesheet parsed with problems", zap.String("name", name), zap.Int("warnings", len(sheet.Warnings)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// somebody could have been faster
	if existing, ok := c.entries[id]; ok {
		return existing, true
	}
	c.entries[id] = sheet
	return sheet, true
}

// Cached reports whether stylesheet is present without loading it.
func (c *Cache) Cached(id AssetID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// Track records which stylesheets element uses. Previous registration of the
// element is dropped first.
func (c *Cache) Track(h tree.Handle, ids []AssetID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.tracked[h] {
		if set, ok := c.users[id]; ok {
			delete(set, h)
			if len(set) == 0 {
				delete(c.users, id)
			}
		}
	}
	delete(c.tracked, h)
	if len(ids) == 0 {
		return
	}

	c.tracked[h] = slices.Clone(ids)
	for _, id := range ids {
		set, ok := c.users[id]
		if !ok {
			set = make(map[tree.Handle]struct{})
			c.users[id] = set
		}
		set[h] = struct{}{}
	}
}

// Users returns elements registered for the asset, sorted.
func (c *Cache) Users(id AssetID) []tree.Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedHandles(c.users[id])
}

// Notify handles asset change. Modified and removed assets are evicted, all
// elements using the asset are marked dirty.
func (c *Cache) Notify(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Kind == Modified || ev.Kind == Removed {
		delete(c.entries, ev.ID)
	}
	for h := range c.users[ev.ID] {
		c.dirty[h] = struct{}{}
	}
	c.log.Debug("Stylesheet changed",
		zap.Stringer("kind", ev.Kind),
		zap.Stringer("id", ev.ID),
		zap.Int("affected", len(c.users[ev.ID])))
}

// TakeDirty returns and clears elements marked dirty since last call.
func (c *Cache) TakeDirty() []tree.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := sortedHandles(c.dirty)
	clear(c.dirty)
	return res
}

func sortedHandles(set map[tree.Handle]struct{}) []tree.Handle {
	if len(set) == 0 {
		return nil
	}
	res := make([]tree.Handle, 0, len(set))
	for h := range set {
		res = append(res, h)
	}
	slices.Sort(res)
	return res
}
