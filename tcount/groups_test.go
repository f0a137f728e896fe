package tcount

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcount-dev/tcount/count"
)

func file(files, tokens uint64, kinds ...uint64) count.Counts {
	return count.Counts{
		Files:        files,
		Tokens:       tokens,
		Kinds:        kinds,
		KindPatterns: []uint64{},
		Queries:      []uint64{},
	}
}

func keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func sampleGroups() *Groups {
	g := NewGroups(count.NewCounters([]string{"comment"}, nil, nil))
	g.Add("Rust", file(1, 50, 2))
	g.Add("Go", file(1, 10, 1))
	g.Add("Go", file(1, 30, 0))
	g.Add("Python", file(2, 40, 3))
	g.Add("C", file(1, 40, 0))
	return g
}

func TestGroupsAdd(t *testing.T) {
	g := sampleGroups()
	require.Equal(t, 4, g.Len())

	goCounts, ok := g.Get("Go")
	require.True(t, ok)
	require.Equal(t, file(2, 40, 1), goCounts)

	_, ok = g.Get("Ruby")
	require.False(t, ok)
}

func TestGroupsRows(t *testing.T) {
	g := sampleGroups()

	require.Equal(t, []string{"C", "Go", "Python", "Rust"}, keys(g.Rows(SortByGroup, 0)))
	require.Equal(t, []string{"Go", "Python", "C", "Rust"}, keys(g.Rows(SortByFiles, 0)))
	require.Equal(t, []string{"Rust", "C", "Go", "Python"}, keys(g.Rows(SortByTokens, 0)))

	require.Equal(t, []string{"Rust", "C"}, keys(g.Rows(SortByTokens, 2)))
	require.Len(t, g.Rows(SortByTokens, 10), 4)
}

func TestGroupsTotals(t *testing.T) {
	g := sampleGroups()
	require.Equal(t, file(6, 170, 6), g.Totals())

	empty := NewGroups(count.NewCounters([]string{"comment"}, nil, nil))
	require.Equal(t, file(0, 0, 0), empty.Totals())
}

func TestGroupsMergeMatchesSequentialAdds(t *testing.T) {
	counters := count.NewCounters([]string{"comment"}, nil, nil)
	a := NewGroups(counters)
	a.Add("Go", file(1, 10, 1))
	a.Add("Rust", file(1, 5, 0))
	b := NewGroups(counters)
	b.Add("Go", file(1, 20, 2))
	b.Add("C", file(1, 7, 1))

	a.Merge(b)
	require.Equal(t, mergedRows(), a.Rows(SortByGroup, 0))
}

func mergedRows() []Row {
	return []Row{
		{Key: "C", Counts: file(1, 7, 1)},
		{Key: "Go", Counts: file(2, 30, 3)},
		{Key: "Rust", Counts: file(1, 5, 0)},
	}
}

func TestParseGroupAndSort(t *testing.T) {
	for _, g := range []GroupBy{GroupByLanguage, GroupByFile, GroupByArg} {
		parsed, err := ParseGroupBy(g.String())
		require.NoError(t, err)
		require.Equal(t, g, parsed)
	}
	for _, s := range []SortBy{SortByGroup, SortByFiles, SortByTokens} {
		parsed, err := ParseSortBy(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
	_, err := ParseGroupBy("directory")
	require.Error(t, err)
	_, err = ParseSortBy("lines")
	require.Error(t, err)
}
