// Package state holds the latest rendered frame of every surface for readers
// outside the tick loop.
package state

import (
	"image"
	"sort"
	"sync"
	"time"
)

// Key identifies a surface.
type Key struct {
	Block string
	Index int
}

type Frame struct {
	Key
	BlockName string
	Content   []string
	// Error is the failure shown on the fallback screen, if any.
	Error string
	Image *image.RGBA
	// Seq increases with every stored frame of this surface.
	Seq     uint64
	Updated time.Time
}

// Status summarizes the tick loop.
type Status struct {
	Ticks      uint64
	Updates    uint64
	Surfaces   int
	LastUpdate time.Time
}

type Store struct {
	mu     sync.RWMutex
	frames map[Key]Frame
	status Status
}

func NewStore() *Store {
	return &Store{frames: make(map[Key]Frame)}
}

// Put stores f, assigning its sequence number.
func (store *Store) Put(f Frame) {
	store.mu.Lock()
	defer store.mu.Unlock()
	f.Seq = store.frames[f.Key].Seq + 1
	store.frames[f.Key] = f
}

func (store *Store) Get(block string, index int) (Frame, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	f, ok := store.frames[Key{Block: block, Index: index}]
	return f, ok
}

// List returns all frames ordered by block then index.
func (store *Store) List() []Frame {
	store.mu.RLock()
	out := make([]Frame, 0, len(store.frames))
	for _, f := range store.frames {
		out = append(out, f)
	}
	store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Block != out[j].Block {
			return out[i].Block < out[j].Block
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Retain drops every frame whose key is not in live.
func (store *Store) Retain(live map[Key]bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for k := range store.frames {
		if !live[k] {
			delete(store.frames, k)
		}
	}
}

func (store *Store) Snapshot() Status {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.status
}

func (store *Store) UpdateStatus(status Status) {
	store.mu.Lock()
	store.status = status
	store.mu.Unlock()
}
