package count

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/parser"
)

// Engine counts files for one worker. Counters and the queries inside them
// are shared read-only; the parsers are owned by the engine.
type Engine struct {
	counters *Counters
	parsers  *parser.Parsers
}

// NewEngine creates an engine for counters.
func NewEngine(counters *Counters) *Engine {
	return &Engine{
		counters: counters,
		parsers:  parser.New(),
	}
}

// Close releases the engine's parsers.
func (e *Engine) Close() {
	e.parsers.Close()
}

// Count parses text as language and tallies every counter. A language with
// no grammar still counts as one file with every other slot zero.
func (e *Engine) Count(ctx context.Context, path string, text []byte, language lang.Language) (Counts, error) {
	out := e.counters.Zero()
	out.Files = 1
	if !language.Supported() {
		return out, nil
	}

	tree, err := e.parsers.Parse(ctx, path, text, language)
	if err != nil {
		return Counts{}, err
	}
	defer tree.Close()
	root := tree.RootNode()

	for i, q := range e.counters.queries {
		prog, ok := q.Programs[language]
		if !ok {
			continue
		}
		start := e.counters.offsets[i]
		prog.Count(root, text, out.Queries[start:start+q.Spec.Width()])
	}

	kinds := e.counters.kinds
	patterns := e.counters.patterns
	walk(root, func(n *sitter.Node, depth int) {
		if n.IsMissing() {
			return
		}
		// Leaves are the closest thing to tokens a tree-sitter tree has.
		if depth > 0 && n.ChildCount() == 0 && !n.IsExtra() {
			out.Tokens++
		}
		if len(kinds) == 0 && len(patterns) == 0 {
			return
		}
		kind := n.Type()
		for i, k := range kinds {
			if k == kind {
				out.Kinds[i]++
			}
		}
		for i, p := range patterns {
			if p.MatchString(kind) {
				out.KindPatterns[i]++
			}
		}
	})

	return out, nil
}

// walk visits every node under root in pre-order. depth is 0 for root.
func walk(root *sitter.Node, visit func(n *sitter.Node, depth int)) {
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	depth := 0
	for {
		visit(cursor.CurrentNode(), depth)
		if cursor.GoToFirstChild() {
			depth++
			continue
		}
		for !cursor.GoToNextSibling() {
			if depth == 0 || !cursor.GoToParent() {
				return
			}
			depth--
		}
	}
}
