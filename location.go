package objcache

import "strings"

// Location is a set of cache tiers. The bit values are part of the public
// contract and never change.
type Location uint8

const (
	None   Location = 0
	Memory Location = 1 << 0
	File   Location = 1 << 1
	Local           = Memory | File
)

// precedence is the fixed order in which tiers are visited.
var precedence = [...]Location{Memory, File}

// Has reports whether every tier in t is present in l.
func (l Location) Has(t Location) bool {
	return t != None && l&t == t
}

// Tiers returns the known tiers present in l, Memory before File.
// Unknown bits are ignored.
func (l Location) Tiers() []Location {
	out := make([]Location, 0, len(precedence))
	for _, t := range precedence {
		if l.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Count is the number of known tiers present in l.
func (l Location) Count() int {
	n := 0
	for _, t := range precedence {
		if l.Has(t) {
			n++
		}
	}
	return n
}

func (l Location) String() string {
	switch l & Local {
	case None:
		return "none"
	case Memory:
		return "memory"
	case File:
		return "file"
	}
	parts := make([]string, 0, 2)
	for _, t := range l.Tiers() {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, "|")
}
