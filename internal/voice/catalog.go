package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Ext is the file extension of voice packs.
const Ext = ".bin"

// DefaultVoice is used when no voice is configured.
const DefaultVoice = "af_bella"

// Voice describes one voice pack on disk.
type Voice struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Catalog lists the voice packs in a directory.
type Catalog struct {
	dir string

	mu     sync.RWMutex
	voices []Voice
	byID   map[string]Voice
}

// NewCatalog scans dir for *.bin voice packs.
func NewCatalog(dir string) (*Catalog, error) {
	if dir == "" {
		return nil, errors.New("voices directory is required")
	}
	c := &Catalog{dir: dir}
	if err := c.Rescan(); err != nil {
		return nil, err
	}
	return c, nil
}

// NameFromPath returns the voice id for a pack file path.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string { return c.dir }

// Rescan rereads the directory.
func (c *Catalog) Rescan() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read voices directory: %w", err)
	}

	voices := make([]Voice, 0, len(entries))
	byID := make(map[string]Voice, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		v := Voice{
			ID:   strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(c.dir, e.Name()),
			Size: info.Size(),
		}
		voices = append(voices, v)
		byID[v.ID] = v
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].ID < voices[j].ID })

	c.mu.Lock()
	c.voices, c.byID = voices, byID
	c.mu.Unlock()
	return nil
}

// List returns the known voices sorted by id.
func (c *Catalog) List() []Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Voice(nil), c.voices...)
}

// Resolve returns the pack path for id. A bare file name with the .bin
// extension is accepted too.
func (c *Catalog) Resolve(id string) (string, error) {
	id = strings.TrimSuffix(id, Ext)

	c.mu.RLock()
	v, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown voice %q", id)
	}
	return v.Path, nil
}

// Watch rescans the directory whenever a pack is added, removed or renamed,
// until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create voices watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("watch voices directory: %w", err)
	}
	slog.Debug("watching voices directory", "dir", c.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), Ext) {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := c.Rescan(); err != nil {
				slog.Warn("voices rescan failed", "dir", c.dir, "error", err)
				continue
			}
			slog.Info("voices directory changed", "event", ev.Op.String(), "file", ev.Name, "voices", len(c.List()))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("voices watcher error", "dir", c.dir, "error", err)
		}
	}
}
