// Package query resolves query specifiers into compiled tree-sitter
// programs, one per language that defines the query.
//
// A query named "foo" lives in files {root}/{language-dir}/foo.scm. Roots are
// probed in order: the project directory, the user query directories taken
// together, then the built-in queries. The first root that defines foo for at least one language
// wins outright, so a project that defines foo only for Rust hides the
// built-in foo for every other language.
package query

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/RoaringBitmap/roaring"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tcount-dev/tcount/lang"
)

const defaultCacheSize = 256

// NotFoundError is returned when no root defines the query.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to find query %q", e.Name)
}

// CompileError is returned when a query file does not compile for its
// language.
type CompileError struct {
	Name     string
	Language lang.Language
	Root     string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile query %q for %s (%s): %v", e.Name, e.Language, e.Root, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Query is a resolved specifier with one program per language.
type Query struct {
	Spec     Spec
	Root     string
	Programs map[lang.Language]*Program
}

// Languages returns the languages q has a program for, ordered by name.
func (q *Query) Languages() []lang.Language {
	var langs []lang.Language
	for _, l := range lang.List() {
		if _, ok := q.Programs[l]; ok {
			langs = append(langs, l)
		}
	}
	return langs
}

// Resolver locates and compiles queries. It is safe for concurrent use.
type Resolver struct {
	roots  SearchRootConfig
	cache  *lru.Cache[string, *sitter.Query]
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for skipped query files.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver over roots.
func NewResolver(roots SearchRootConfig, opts ...Option) (*Resolver, error) {
	cache, err := lru.New[string, *sitter.Query](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		roots:  roots,
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ResolveAll resolves every specifier, failing on the first error.
func (r *Resolver) ResolveAll(specifiers []string) ([]*Query, error) {
	queries := make([]*Query, 0, len(specifiers))
	for _, s := range specifiers {
		q, err := r.Resolve(s)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// Resolve parses specifier and compiles the query from the first root that
// defines it.
func (r *Resolver) Resolve(specifier string) (*Query, error) {
	spec, err := ParseSpec(specifier)
	if err != nil {
		return nil, err
	}

	for root := range r.roots.Roots() {
		texts := r.probe(root, spec.Name)
		if len(texts) == 0 {
			continue
		}

		q := &Query{
			Spec:     spec,
			Root:     root.Label,
			Programs: make(map[lang.Language]*Program, len(texts)),
		}
		for l, text := range texts {
			compiled, err := r.compile(root.Label, l, spec.Name, text)
			if err != nil {
				return nil, err
			}
			q.Programs[l] = newProgram(compiled, spec)
		}
		r.logger.Debug("query.resolved", "query", spec.String(), "root", root.Label, "languages", len(q.Programs))
		return q, nil
	}

	return nil, &NotFoundError{Name: spec.Name}
}

// probe reads {dir}/{name}.scm for every known language directory in each
// of root's directories. The first file found for a language wins, both
// across root's directories and across a language's directory names.
func (r *Resolver) probe(root Root, name string) map[lang.Language][]byte {
	texts := make(map[lang.Language][]byte)
	for _, fsys := range root.Dirs {
		for _, dir := range lang.QueryDirNames() {
			l := lang.FromDirName(dir)
			if _, done := texts[l]; done {
				continue
			}
			file := path.Join(dir, name+".scm")
			data, err := util.ReadFile(fsys, file)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					r.logger.Debug("query.skip", "root", root.Label, "file", file, "error", err)
				}
				continue
			}
			texts[l] = data
		}
	}
	return texts
}

func (r *Resolver) compile(root string, l lang.Language, name string, text []byte) (*sitter.Query, error) {
	key := root + "\x00" + l.String() + "\x00" + name
	if q, ok := r.cache.Get(key); ok {
		return q, nil
	}

	grammar, err := l.Grammar()
	if err != nil {
		return nil, &CompileError{Name: name, Language: l, Root: root, Err: err}
	}
	q, err := sitter.NewQuery(text, grammar)
	if err != nil {
		return nil, &CompileError{Name: name, Language: l, Root: root, Err: err}
	}
	r.cache.Add(key, q)
	return q, nil
}

// Program is a compiled query bound to the slots of its Spec. Captures the
// Spec did not ask for are inert: they never reach a slot.
type Program struct {
	query *sitter.Query
	match bool
	inert *roaring.Bitmap
	slots []int // capture id -> slot; meaningless for inert ids
}

func newProgram(q *sitter.Query, spec Spec) *Program {
	n := q.CaptureCount()
	p := &Program{
		query: q,
		match: spec.IsMatch(),
		inert: roaring.New(),
		slots: make([]int, n),
	}

	want := make(map[string]int, len(spec.Captures))
	for i, c := range spec.Captures {
		want[c] = i
	}
	for id := uint32(0); id < n; id++ {
		slot, ok := want[q.CaptureNameForId(id)]
		if p.match || !ok {
			p.inert.Add(id)
			continue
		}
		p.slots[id] = slot
	}
	return p
}

// CaptureNames returns the names of all captures the program declares.
func (p *Program) CaptureNames() []string {
	names := make([]string, p.query.CaptureCount())
	for i := range names {
		names[i] = p.query.CaptureNameForId(uint32(i))
	}
	return names
}

// Inert reports whether the capture with the given name is ignored.
func (p *Program) Inert(name string) bool {
	for id, n := range p.CaptureNames() {
		if n == name {
			return p.inert.Contains(uint32(id))
		}
	}
	return true
}

// Count runs the program over root and adds into slots, which must have one
// entry per slot of the spec. Match programs add the number of matches to
// slots[0]; capture programs add one per captured node.
func (p *Program) Count(root *sitter.Node, source []byte, slots []uint64) {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(p.query, root)

	for {
		m, ok := cursor.NextMatch()
		if !ok {
			return
		}
		if len(m.Captures) > 0 && len(cursor.FilterPredicates(m, source).Captures) == 0 {
			continue
		}
		if p.match {
			slots[0]++
			continue
		}
		for _, c := range m.Captures {
			if p.inert.Contains(c.Index) {
				continue
			}
			slots[p.slots[c.Index]]++
		}
	}
}
