// Package parser provides tree-sitter parsing for counting workers.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tcount-dev/tcount/lang"
)

// ParseError reports that no syntax tree could be produced for a file.
// Trees containing error nodes are not parse errors.
type ParseError struct {
	Path     string
	Language lang.Language
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parser error for path %s (%s): %v", e.Path, e.Language, e.Err)
	}
	return fmt.Sprintf("parser error for path %s (%s)", e.Path, e.Language)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parsers holds one tree-sitter parser per language. It is not safe for
// concurrent use; each worker owns its own.
type Parsers struct {
	parsers map[lang.Language]*sitter.Parser
}

// New creates an empty parser set.
func New() *Parsers {
	return &Parsers{parsers: make(map[lang.Language]*sitter.Parser)}
}

// Parse parses source as language. path is only used for errors.
func (p *Parsers) Parse(ctx context.Context, path string, source []byte, language lang.Language) (*sitter.Tree, error) {
	parser, err := p.parser(language)
	if err != nil {
		return nil, err
	}
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{Path: path, Language: language, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Path: path, Language: language}
	}
	return tree, nil
}

func (p *Parsers) parser(language lang.Language) (*sitter.Parser, error) {
	if parser, ok := p.parsers[language]; ok {
		return parser, nil
	}
	grammar, err := language.Grammar()
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	p.parsers[language] = parser
	return parser, nil
}

// Close releases every parser.
func (p *Parsers) Close() {
	for l, parser := range p.parsers {
		parser.Close()
		delete(p.parsers, l)
	}
}
