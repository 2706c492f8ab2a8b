// Package assets maps stylesheet files to stable asset identities and reports
// file changes as cache notifications.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uicss/cache"
)

// ID returns identity of a file path. The same path always produces the same
// identity, so references survive restarts.
func ID(path string) cache.AssetID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path)))
}

// Registry knows which files are stylesheets and reads them on demand. It
// implements cache.Source.
type Registry struct {
	mu    sync.RWMutex
	paths map[cache.AssetID]string
	ids   map[string]cache.AssetID
}

func NewRegistry() *Registry {
	return &Registry{
		paths: make(map[cache.AssetID]string),
		ids:   make(map[string]cache.AssetID),
	}
}

// Register adds file and returns its identity. File does not have to exist
// yet.
func (r *Registry) Register(path string) (cache.AssetID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unable to register asset %q: %w", path, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[abs]; ok {
		return id, nil
	}
	id := ID(abs)
	r.paths[id] = abs
	r.ids[abs] = id
	return id, nil
}

// Lookup returns identity of registered file.
func (r *Registry) Lookup(path string) (cache.AssetID, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return uuid.Nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[abs]
	return id, ok
}

func (r *Registry) Path(id cache.AssetID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.paths[id]
	return p, ok
}

// Paths lists registered files in natural order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.ids))
	for p := range r.ids {
		res = append(res, p)
	}
	sort.Sort(natural.StringSlice(res))
	return res
}

// Load reads registered file. Unknown identities and missing files are
// reported as not present.
func (r *Registry) Load(id cache.AssetID) ([]byte, string, bool) {
	path, ok := r.Path(id)
	if !ok {
		return nil, "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, false
	}
	return data, path, true
}

// Watcher reports changes of registered files.
type Watcher struct {
	log *zap.Logger
	reg *Registry
	w   *fsnotify.Watcher
	// present tracks files seen on disk, creating file which replaced
	// existing one is a modification
	present map[cache.AssetID]bool
}

// NewWatcher starts watching directories of all files registered so far.
// Directories are watched instead of files so that editors replacing files
// on save are handled.
func NewWatcher(reg *Registry, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create file watcher: %w", err)
	}
	var dirs []string
	present := make(map[cache.AssetID]bool)
	for _, p := range reg.Paths() {
		if _, err := os.Stat(p); err == nil {
			present[ID(p)] = true
		}
		if d := filepath.Dir(p); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return nil, multierr.Append(fmt.Errorf("unable to watch %q: %w", d, err), w.Close())
		}
	}
	return &Watcher{log: log.Named("assets"), reg: reg, w: w, present: present}, nil
}

// Run converts file events to cache events until context is canceled or
// watcher fails. Returned channel is closed when Run exits.
func (w *Watcher) Run(ctx context.Context) <-chan cache.Event {
	out := make(chan cache.Event)
	go func() {
		defer close(out)
		defer w.w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case fe, ok := <-w.w.Events:
				if !ok {
					return
				}
				ev, ok := w.convert(fe)
				if !ok {
					continue
				}
				w.log.Debug("Asset changed", zap.String("file", fe.Name), zap.Stringer("kind", ev.Kind))
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.w.Errors:
				if !ok {
					return
				}
				w.log.Warn("File watcher problem", zap.Error(err))
			}
		}
	}()
	return out
}

func (w *Watcher) convert(fe fsnotify.Event) (cache.Event, bool) {
	id, ok := w.reg.Lookup(fe.Name)
	if !ok {
		return cache.Event{}, false
	}
	switch {
	case fe.Has(fsnotify.Remove), fe.Has(fsnotify.Rename):
		if _, err := os.Stat(fe.Name); errors.Is(err, fs.ErrNotExist) {
			w.present[id] = false
			return cache.Event{Kind: cache.Removed, ID: id}, true
		}
		return cache.Event{Kind: cache.Modified, ID: id}, true
	case fe.Has(fsnotify.Create):
		if w.present[id] {
			return cache.Event{Kind: cache.Modified, ID: id}, true
		}
		w.present[id] = true
		return cache.Event{Kind: cache.Loaded, ID: id}, true
	case fe.Has(fsnotify.Write):
		w.present[id] = true
		return cache.Event{Kind: cache.Modified, ID: id}, true
	}
	return cache.Event{}, false
}
