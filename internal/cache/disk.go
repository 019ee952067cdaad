package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const diskExt = ".zst"

// ErrItemTooLarge is returned when one entry exceeds the disk capacity.
var ErrItemTooLarge = errors.New("cache item exceeds capacity")

// Disk stores zstd-compressed entries, one file per key. Files are evicted
// oldest-modified first once the directory exceeds capacity bytes.
type Disk struct {
	dir      string
	capacity int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu   sync.Mutex
	size int64
}

// NewDisk opens (creating if needed) dir. capacity <= 0 means unbounded;
// level is a zstd level (1-22), 0 picks the library default.
func NewDisk(dir string, capacity int64, level int) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	opts := []zstd.EOption{}
	if level > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	d := &Disk{dir: dir, capacity: capacity, encoder: enc, decoder: dec}
	for _, f := range d.files() {
		d.size += f.size
	}
	return d, nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+diskExt)
}

// Get reads and decompresses key. Corrupt files are removed.
func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	data, err := d.decoder.DecodeAll(raw, nil)
	if err != nil {
		if os.Remove(path) == nil {
			d.size = max(0, d.size-int64(len(raw)))
		}
		return nil, false
	}
	return data, true
}

// Put compresses and writes value under key.
func (d *Disk) Put(key string, value []byte) error {
	compressed := d.encoder.EncodeAll(value, nil)
	n := int64(len(compressed))
	if d.capacity > 0 && n > d.capacity {
		return ErrItemTooLarge
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.path(key)
	if info, err := os.Stat(path); err == nil {
		d.size -= info.Size()
	}
	if d.capacity > 0 && d.size+n > d.capacity {
		d.evict(d.size + n - d.capacity)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache file: %w", err)
	}
	d.size += n
	return nil
}

// Size returns the bytes currently on disk.
func (d *Disk) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Close releases the codecs.
func (d *Disk) Close() error {
	d.encoder.Close()
	d.decoder.Close()
	return nil
}

type diskFile struct {
	path    string
	size    int64
	modUnix int64
}

func (d *Disk) files() []diskFile {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil
	}
	out := make([]diskFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), diskExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, diskFile{
			path:    filepath.Join(d.dir, e.Name()),
			size:    info.Size(),
			modUnix: info.ModTime().UnixNano(),
		})
	}
	return out
}

// evict removes the oldest files until at least need bytes are freed
// (must be called with lock held).
func (d *Disk) evict(need int64) {
	files := d.files()
	sort.Slice(files, func(i, j int) bool { return files[i].modUnix < files[j].modUnix })
	for _, f := range files {
		if need <= 0 {
			return
		}
		if err := os.Remove(f.path); err != nil {
			continue
		}
		d.size -= f.size
		need -= f.size
	}
}
