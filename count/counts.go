package count

import "fmt"

// Counts holds the totals for a file or a group of files. Kinds,
// KindPatterns and Queries are index-aligned with the Counters that
// produced them.
type Counts struct {
	Files        uint64   `json:"files"`
	Tokens       uint64   `json:"tokens"`
	Kinds        []uint64 `json:"kinds"`
	KindPatterns []uint64 `json:"kind_patterns"`
	Queries      []uint64 `json:"queries"`
}

// Add merges other into c slot by slot. Both must come from the same
// Counters; a shape mismatch is a programming error and panics.
func (c *Counts) Add(other Counts) {
	c.Files += other.Files
	c.Tokens += other.Tokens
	addSlots("kinds", c.Kinds, other.Kinds)
	addSlots("kind patterns", c.KindPatterns, other.KindPatterns)
	addSlots("queries", c.Queries, other.Queries)
}

func addSlots(field string, dst, src []uint64) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("count: merging %s of length %d into %d", field, len(src), len(dst)))
	}
	for i, v := range src {
		dst[i] += v
	}
}

// Merge returns a + b without modifying either.
func Merge(a, b Counts) Counts {
	out := a.Clone()
	out.Add(b)
	return out
}

// Clone returns a deep copy of c.
func (c Counts) Clone() Counts {
	return Counts{
		Files:        c.Files,
		Tokens:       c.Tokens,
		Kinds:        cloneSlots(c.Kinds),
		KindPatterns: cloneSlots(c.KindPatterns),
		Queries:      cloneSlots(c.Queries),
	}
}

func cloneSlots(s []uint64) []uint64 {
	out := make([]uint64, len(s))
	copy(out, s)
	return out
}

// Values flattens c into Files, Tokens, kinds, patterns, queries: the column
// order of a report row.
func (c Counts) Values() []uint64 {
	out := make([]uint64, 0, 2+len(c.Kinds)+len(c.KindPatterns)+len(c.Queries))
	out = append(out, c.Files, c.Tokens)
	out = append(out, c.Kinds...)
	out = append(out, c.KindPatterns...)
	return append(out, c.Queries...)
}
