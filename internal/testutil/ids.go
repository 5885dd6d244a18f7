package testutil

import "fmt"

// SequenceIDs hands out run IDs of the form "<prefix>-0001", "<prefix>-0002".
// It is not safe for concurrent use.
type SequenceIDs struct {
	prefix string
	n      int
}

// NewSequenceIDs creates a generator. An empty prefix becomes "run".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequenceIDs{prefix: prefix}
}

// Next returns the next ID.
func (g *SequenceIDs) Next() string {
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
