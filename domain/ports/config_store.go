package ports

// ConfigStore is the host configuration store the synchronizer reads from
// and writes to.
type ConfigStore interface {
	// GroupList returns the names of all groups.
	GroupList() []string
	// Group returns the named group, creating it on first write.
	Group(name string) ConfigGroup
}

// ConfigGroup is one named section of a ConfigStore.
type ConfigGroup interface {
	KeyList() []string
	ReadEntry(key string) string
	WriteEntry(key, text string)
}

// ConfigSyncer persists a store. Adapters that write through to a backing
// file implement it; in-memory adapters need not.
type ConfigSyncer interface {
	Sync() error
}
