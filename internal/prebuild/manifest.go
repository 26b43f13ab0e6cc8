package prebuild

import "sort"

// Manifest maps digests to the cached artifacts that must be published.
type Manifest map[string]string

// Merge adds every entry of other to m.
func (m Manifest) Merge(other Manifest) {
	for key, path := range other {
		m[key] = path
	}
}

// Keys returns the digests in ascending order.
func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))

	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
