package tcount

import (
	"cmp"
	"slices"

	"github.com/tcount-dev/tcount/count"
)

// Groups accumulates Counts per group key. It is not safe for concurrent
// use; each worker keeps its own and the results are folded with Merge.
type Groups struct {
	counters *count.Counters
	m        map[string]*count.Counts
}

// NewGroups creates an empty accumulator for counts shaped by counters.
func NewGroups(counters *count.Counters) *Groups {
	return &Groups{
		counters: counters,
		m:        make(map[string]*count.Counts),
	}
}

// Add merges c into the group key.
func (g *Groups) Add(key string, c count.Counts) {
	acc, ok := g.m[key]
	if !ok {
		zero := g.counters.Zero()
		acc = &zero
		g.m[key] = acc
	}
	acc.Add(c)
}

// Merge folds every group of other into g.
func (g *Groups) Merge(other *Groups) {
	for key, c := range other.m {
		g.Add(key, *c)
	}
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.m)
}

// Get returns the counts of a group.
func (g *Groups) Get(key string) (count.Counts, bool) {
	c, ok := g.m[key]
	if !ok {
		return count.Counts{}, false
	}
	return c.Clone(), true
}

// Row is one output row.
type Row struct {
	Key    string
	Counts count.Counts
}

// Rows returns the groups ordered by sortBy, keeping only the first top rows
// when top is positive. Rows that tie under numfiles or tokens keep their
// key order.
func (g *Groups) Rows(sortBy SortBy, top int) []Row {
	rows := make([]Row, 0, len(g.m))
	for key, c := range g.m {
		rows = append(rows, Row{Key: key, Counts: c.Clone()})
	}

	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.Key, b.Key)
	})
	switch sortBy {
	case SortByFiles:
		slices.SortStableFunc(rows, func(a, b Row) int {
			return cmp.Compare(b.Counts.Files, a.Counts.Files)
		})
	case SortByTokens:
		slices.SortStableFunc(rows, func(a, b Row) int {
			return cmp.Compare(b.Counts.Tokens, a.Counts.Tokens)
		})
	}

	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}
	return rows
}

// Totals is the sum of every group, regardless of any top limit.
func (g *Groups) Totals() count.Counts {
	total := g.counters.Zero()
	for _, c := range g.m {
		total.Add(*c)
	}
	return total
}
