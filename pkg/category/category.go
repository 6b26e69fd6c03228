// Package category defines the closed set of top-level directories a
// package may carry files from.
package category

import (
	"sort"
	"strings"
)

// Category identifies one known package content class
type Category int

const (
	Agents Category = iota
	Checkman
	Checks
	Doc
	Inventory
	Notifications
	PNPTemplates
	Web
)

// ArchiveSuffix is appended to a category name to form its container entry
const ArchiveSuffix = ".tar"

var names = [...]string{
	Agents:        "agents",
	Checkman:      "checkman",
	Checks:        "checks",
	Doc:           "doc",
	Inventory:     "inventory",
	Notifications: "notifications",
	PNPTemplates:  "pnp-templates",
	Web:           "web",
}

// All returns every known category in declaration order
func All() []Category {
	all := make([]Category, len(names))
	for i := range names {
		all[i] = Category(i)
	}
	return all
}

// Names returns the wire names of every known category in declaration order
func Names() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}

// String returns the wire name used for the directory and the archive entry
func (c Category) String() string {
	if c < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(names)
}

// ArchiveName returns the container entry name, e.g. "agents.tar"
func (c Category) ArchiveName() string {
	return c.String() + ArchiveSuffix
}

// Parse maps a wire name back to its Category
func Parse(name string) (Category, bool) {
	for i, n := range names {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// IsKnown reports whether name is the wire name of a known category
func IsKnown(name string) bool {
	_, ok := Parse(name)
	return ok
}

// FromArchiveName extracts the category name from a container entry such as
// "agents.tar". The name need not be a known category.
func FromArchiveName(entry string) (string, bool) {
	if !strings.HasSuffix(entry, ArchiveSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(entry, ArchiveSuffix)
	if name == "" {
		return "", false
	}
	return name, true
}

// Order sorts category names the way containers lay them out: known
// categories first in declaration order, then unknown names lexicographically.
func Order(categoryNames []string) []string {
	seen := make(map[string]bool, len(categoryNames))
	for _, n := range categoryNames {
		seen[n] = true
	}

	ordered := make([]string, 0, len(seen))
	for _, n := range names {
		if seen[n] {
			ordered = append(ordered, n)
			delete(seen, n)
		}
	}

	var unknown []string
	for n := range seen {
		unknown = append(unknown, n)
	}
	sort.Strings(unknown)
	return append(ordered, unknown...)
}
