package cache_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"uicss/cache"
	"uicss/tree"
)

type memSource struct {
	mu    sync.Mutex
	files map[cache.AssetID]string
	loads int
}

func (m *memSource) Load(id cache.AssetID) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	data, ok := m.files[id]
	return []byte(data), id.String(), ok
}

func (m *memSource) set(id cache.AssetID, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = data
}

func (m *memSource) remove(id cache.AssetID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
}

func newSource() *memSource {
	return &memSource{files: map[cache.AssetID]string{}}
}

func TestCache_SheetParsesOnce(t *testing.T) {
	src := newSource()
	id := uuid.New()
	src.set(id, `.a { width: 1px }`)
	c := cache.New(src, zap.NewNop())

	sheet, ok := c.Sheet(id)
	require.True(t, ok)
	require.Len(t, sheet.Rules, 1)

	again, ok := c.Sheet(id)
	require.True(t, ok)
	assert.Same(t, sheet, again)
	assert.Equal(t, 1, src.loads)
	assert.True(t, c.Cached(id))
}

func TestCache_MissingIsRetried(t *testing.T) {
	src := newSource()
	id := uuid.New()
	c := cache.New(src, zap.NewNop())

	sheet, ok := c.Sheet(id)
	assert.False(t, ok)
	assert.Nil(t, sheet)
	assert.False(t, c.Cached(id))

	src.set(id, `.a { width: 1px }`)
	sheet, ok = c.Sheet(id)
	require.True(t, ok)
	assert.Len(t, sheet.Rules, 1)
	assert.Equal(t, 2, src.loads)
}

func TestCache_BrokenSheetIsEmpty(t *testing.T) {
	src := newSource()
	id := uuid.New()
	src.set(id, `this is { not css`)
	c := cache.New(src, nil)

	sheet, ok := c.Sheet(id)
	require.True(t, ok)
	require.NotNil(t, sheet)
	assert.Empty(t, sheet.Rules)
}

func TestCache_NilSource(t *testing.T) {
	c := cache.New(nil, nil)
	_, ok := c.Sheet(uuid.New())
	assert.False(t, ok)
}

func TestCache_TrackRebuildsIndex(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := cache.New(newSource(), zap.NewNop())

	c.Track(tree.Handle(1), []cache.AssetID{a, b})
	c.Track(tree.Handle(2), []cache.AssetID{a})
	assert.Equal(t, []tree.Handle{1, 2}, c.Users(a))
	assert.Equal(t, []tree.Handle{1}, c.Users(b))

	// element 1 switches to b only
	c.Track(tree.Handle(1), []cache.AssetID{b})
	assert.Equal(t, []tree.Handle{2}, c.Users(a))
	assert.Equal(t, []tree.Handle{1}, c.Users(b))

	c.Track(tree.Handle(2), nil)
	assert.Empty(t, c.Users(a))
}

func TestCache_InvalidationRoundTrip(t *testing.T) {
	src := newSource()
	id, other := uuid.New(), uuid.New()
	src.set(id, `.a { width: 1px }`)
	src.set(other, `.b { width: 1px }`)
	c := cache.New(src, zap.NewNop())

	c.Track(tree.Handle(3), []cache.AssetID{id})
	c.Track(tree.Handle(1), []cache.AssetID{id, other})
	c.Track(tree.Handle(2), []cache.AssetID{other})

	first, ok := c.Sheet(id)
	require.True(t, ok)
	assert.Empty(t, c.TakeDirty())

	src.set(id, `.a { width: 2px } .c { height: 1px }`)
	c.Notify(cache.Event{Kind: cache.Modified, ID: id})
	assert.False(t, c.Cached(id))
	assert.Equal(t, []tree.Handle{1, 3}, c.TakeDirty())
	assert.Empty(t, c.TakeDirty(), "dirty set must be drained")

	second, ok := c.Sheet(id)
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Rules, 2)

	src.remove(id)
	c.Notify(cache.Event{Kind: cache.Removed, ID: id})
	assert.Equal(t, []tree.Handle{1, 3}, c.TakeDirty())
	_, ok = c.Sheet(id)
	assert.False(t, ok)

	src.set(id, `.a { width: 3px }`)
	c.Notify(cache.Event{Kind: cache.Loaded, ID: id})
	assert.Equal(t, []tree.Handle{1, 3}, c.TakeDirty())
	_, ok = c.Sheet(id)
	assert.True(t, ok)
}

func TestCache_LoadedKeepsEntry(t *testing.T) {
	src := newSource()
	id := uuid.New()
	src.set(id, `.a { width: 1px }`)
	c := cache.New(src, zap.NewNop())

	_, ok := c.Sheet(id)
	require.True(t, ok)
	c.Notify(cache.Event{Kind: cache.Loaded, ID: id})
	assert.True(t, c.Cached(id))
	assert.Empty(t, c.TakeDirty())
}

func TestCache_Concurrent(t *testing.T) {
	src := newSource()
	ids := make([]cache.AssetID, 8)
	for i := range ids {
		ids[i] = uuid.New()
		src.set(ids[i], `.a { width: 1px }`)
	}
	c := cache.New(src, zap.NewNop())

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j, id := range ids {
				c.Sheet(id)
				c.Track(tree.Handle(i), ids[:j+1])
				if j%3 == 0 {
					c.Notify(cache.Event{Kind: cache.Modified, ID: id})
				}
			}
		}()
	}
	wg.Wait()
	for _, id := range ids {
		_, ok := c.Sheet(id)
		assert.True(t, ok)
	}
	assert.Len(t, c.Users(ids[len(ids)-1]), 16)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "loaded", cache.Loaded.String())
	assert.Equal(t, "modified", cache.Modified.String())
	assert.Equal(t, "removed", cache.Removed.String())
}
