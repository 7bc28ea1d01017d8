package entities

import "sort"

// ConfigTree is a host configuration snapshot: group name to key to
// serialized value text.
type ConfigTree map[string]map[string]string

// Groups returns the group names in sorted order.
func (t ConfigTree) Groups() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the keys of group in sorted order.
func (t ConfigTree) Keys(group string) []string {
	entries := t[group]
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Set stores text under group/key, creating the group when needed.
func (t ConfigTree) Set(group, key, text string) {
	entries, ok := t[group]
	if !ok {
		entries = make(map[string]string)
		t[group] = entries
	}
	entries[key] = text
}

// Clone returns a deep copy of the tree.
func (t ConfigTree) Clone() ConfigTree {
	out := make(ConfigTree, len(t))
	for group, entries := range t {
		copied := make(map[string]string, len(entries))
		for k, v := range entries {
			copied[k] = v
		}
		out[group] = copied
	}
	return out
}
