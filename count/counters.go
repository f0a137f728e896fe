// Package count tallies tokens, node kinds, kind patterns and query results
// over a file's concrete syntax tree.
package count

import (
	"fmt"
	"regexp"

	"github.com/tcount-dev/tcount/query"
)

// CounterKind tags what a counter slot measures.
type CounterKind int

const (
	KindName CounterKind = iota
	KindPattern
	QueryMatch
	QueryCapture
)

// CounterSpec names one counter column.
type CounterSpec struct {
	Kind CounterKind

	// Name is the node kind, the pattern source or the query name.
	Name string

	Capture string // QueryCapture
}

// Label is the column header for the counter.
func (c CounterSpec) Label() string {
	switch c.Kind {
	case KindName:
		return fmt.Sprintf("Kind(%s)", c.Name)
	case KindPattern:
		return fmt.Sprintf("Pattern(%s)", c.Name)
	case QueryMatch:
		return fmt.Sprintf("Query(%s)", c.Name)
	default:
		return fmt.Sprintf("Query(%s@%s)", c.Name, c.Capture)
	}
}

// Counters is the ordered set of requested counters. Its shape is fixed for
// a run: every Counts it produces has the same slot layout.
type Counters struct {
	specs    []CounterSpec
	kinds    []string
	patterns []*regexp.Regexp
	queries  []*query.Query
	offsets  []int // first slot of each query in Counts.Queries
	nslots   int
}

// NewCounters lays out kind names, then kind patterns, then one slot per
// query match or requested capture, in the given order.
func NewCounters(kinds []string, patterns []*regexp.Regexp, queries []*query.Query) *Counters {
	c := &Counters{
		kinds:    kinds,
		patterns: patterns,
		queries:  queries,
		offsets:  make([]int, len(queries)),
	}
	for _, k := range kinds {
		c.specs = append(c.specs, CounterSpec{Kind: KindName, Name: k})
	}
	for _, p := range patterns {
		c.specs = append(c.specs, CounterSpec{Kind: KindPattern, Name: p.String()})
	}
	for i, q := range queries {
		c.offsets[i] = c.nslots
		c.nslots += q.Spec.Width()
		if q.Spec.IsMatch() {
			c.specs = append(c.specs, CounterSpec{Kind: QueryMatch, Name: q.Spec.Name})
			continue
		}
		for _, name := range q.Spec.Captures {
			c.specs = append(c.specs, CounterSpec{Kind: QueryCapture, Name: q.Spec.Name, Capture: name})
		}
	}
	return c
}

// Labels returns the column headers in order.
func (c *Counters) Labels() []string {
	labels := make([]string, len(c.specs))
	for i, s := range c.specs {
		labels[i] = s.Label()
	}
	return labels
}

// Zero returns an all-zero Counts shaped for c.
func (c *Counters) Zero() Counts {
	return Counts{
		Kinds:        make([]uint64, len(c.kinds)),
		KindPatterns: make([]uint64, len(c.patterns)),
		Queries:      make([]uint64, c.nslots),
	}
}
