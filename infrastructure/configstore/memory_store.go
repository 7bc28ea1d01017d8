// Package configstore provides host configuration stores for the
// configuration synchronizer.
package configstore

import (
	"sync"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/ports"
)

// MemoryStore keeps a configuration tree in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	tree entities.ConfigTree
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tree: entities.ConfigTree{}}
}

// NewMemoryStoreFrom creates a MemoryStore holding a copy of tree.
func NewMemoryStoreFrom(tree entities.ConfigTree) *MemoryStore {
	return &MemoryStore{tree: tree.Clone()}
}

// GroupList returns the group names in sorted order.
func (s *MemoryStore) GroupList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Groups()
}

// Group returns the named group. The group is created by its first write.
func (s *MemoryStore) Group(name string) ports.ConfigGroup {
	return &memoryGroup{store: s, name: name}
}

// Tree returns a snapshot of the stored configuration.
func (s *MemoryStore) Tree() entities.ConfigTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Clone()
}

// Replace swaps the stored configuration for a copy of tree.
func (s *MemoryStore) Replace(tree entities.ConfigTree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree.Clone()
}

type memoryGroup struct {
	store *MemoryStore
	name  string
}

func (g *memoryGroup) KeyList() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.store.tree.Keys(g.name)
}

func (g *memoryGroup) ReadEntry(key string) string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.store.tree[g.name][key]
}

func (g *memoryGroup) WriteEntry(key, text string) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.store.tree.Set(g.name, key, text)
}

var _ ports.ConfigStore = (*MemoryStore)(nil)
