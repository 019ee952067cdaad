// Package cache keeps synthesized sentence waveforms so repeated text skips
// the model. A bounded in-memory LRU sits in front of an optional
// zstd-compressed disk tier.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
)

// Config sizes the two tiers. An empty Dir disables the disk tier.
type Config struct {
	Entries   int
	Dir       string
	DiskBytes int64
	ZstdLevel int
}

// Stats reports cache activity.
type Stats struct {
	Hits     int64 `json:"hits"`
	DiskHits int64 `json:"disk_hits"`
	Misses   int64 `json:"misses"`
	Entries  int   `json:"entries"`
	DiskSize int64 `json:"disk_bytes"`
}

// Cache is safe for concurrent use.
type Cache struct {
	mem  *Memory
	disk *Disk

	hits, diskHits, misses atomic.Int64
}

// New builds a cache. Entries <= 0 yields a cache that stores nothing.
func New(cfg Config) (*Cache, error) {
	c := &Cache{mem: NewMemory(cfg.Entries)}
	if cfg.Dir != "" {
		d, err := NewDisk(cfg.Dir, cfg.DiskBytes, cfg.ZstdLevel)
		if err != nil {
			return nil, err
		}
		c.disk = d
	}
	return c, nil
}

// Key identifies a waveform by voice, speed and exact sentence text.
func Key(voice string, speed float32, sentence string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%.3f|%s", voice, speed, sentence)))
	return hex.EncodeToString(sum[:16])
}

// Get returns a copy of the cached waveform.
func (c *Cache) Get(key string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	if w, ok := c.mem.Get(key); ok {
		c.hits.Add(1)
		return append([]float32(nil), w...), true
	}
	if c.disk != nil {
		if data, ok := c.disk.Get(key); ok {
			w := decodeSamples(data)
			c.mem.Put(key, w)
			c.diskHits.Add(1)
			return append([]float32(nil), w...), true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// Put stores a copy of samples under key.
func (c *Cache) Put(key string, samples []float32) {
	if c == nil || len(samples) == 0 {
		return
	}
	w := append([]float32(nil), samples...)
	c.mem.Put(key, w)
	if c.disk != nil {
		if err := c.disk.Put(key, encodeSamples(w)); err != nil {
			slog.Warn("waveform cache disk write failed", "key", key, "error", err)
		}
	}
}

// Stats returns a snapshot of hit counters and sizes.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	s := Stats{
		Hits:     c.hits.Load(),
		DiskHits: c.diskHits.Load(),
		Misses:   c.misses.Load(),
		Entries:  c.mem.Len(),
	}
	if c.disk != nil {
		s.DiskSize = c.disk.Size()
	}
	return s
}

// Close releases the disk tier's codecs.
func (c *Cache) Close() error {
	if c == nil || c.disk == nil {
		return nil
	}
	return c.disk.Close()
}

func encodeSamples(w []float32) []byte {
	out := make([]byte, len(w)*4)
	for i, v := range w {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeSamples(data []byte) []float32 {
	w := make([]float32, len(data)/4)
	for i := range w {
		w[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return w
}
