package wire

import "sort"

// Header maps header names to values.
// Not map[string][]string, unlike http.Header: the last occurrence of a name wins.
// Names are case-sensitive as received.
type Header map[string]string

// Get returns the value stored under name and whether it was present
func (h Header) Get(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Set stores value under name, replacing any previous value
func (h Header) Set(name, value string) {
	h[name] = value
}

// Clone returns a copy of h
func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// names returns the header names in sorted order so serialized output is stable
func (h Header) names() []string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
