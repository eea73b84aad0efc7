// Package props defines the flat, string-keyed property bag that drives a
// scan, plus the well-known sonar.* property names.
//
// A bag is plain data: module-scoped keys use a "<moduleId>." prefix and are
// split apart by the reactor builder, not here.
package props

import (
	"sort"
	"strings"
)

// Properties is a flat mapping of property names to raw string values.
type Properties map[string]string

// New returns an empty property bag.
func New() Properties {
	return make(Properties)
}

// Get returns the value for key, or "" when the key is absent.
func (p Properties) Get(key string) string {
	return p[key]
}

// Has reports whether key is present, even with an empty value.
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Set stores value under key, replacing any previous value.
func (p Properties) Set(key, value string) {
	p[key] = value
}

// Remove deletes key from the bag.
func (p Properties) Remove(key string) {
	delete(p, key)
}

// List parses the value of key as a comma-separated list. Entries are
// whitespace-trimmed and empty entries are dropped, so a blank or absent
// property yields an empty list.
func (p Properties) List(key string) []string {
	var values []string
	for _, entry := range strings.Split(p[key], ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		values = append(values, entry)
	}
	return values
}

// Clone returns an independent copy of the bag.
func (p Properties) Clone() Properties {
	clone := make(Properties, len(p))
	for key, value := range p {
		clone[key] = value
	}
	return clone
}

// Clear removes every entry from the bag.
func (p Properties) Clear() {
	for key := range p {
		delete(p, key)
	}
}

// Keys returns all property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
