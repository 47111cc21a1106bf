package entry

import "strings"

// NameComparator orders entry names. Both trees are sorted and merged with the same comparator.
type NameComparator interface {
	Compare(name1, name2 string) int
}

// Strcmp is the default name ordering: byte-wise, optionally case-insensitive
type Strcmp struct {
	IgnoreCase bool
}

// Compare implements NameComparator
func (s Strcmp) Compare(name1, name2 string) int {
	if s.IgnoreCase {
		name1 = strings.ToLower(name1)
		name2 = strings.ToLower(name2)
	}
	return strings.Compare(name1, name2)
}
