// Package lang maps file paths and query directory names to languages and
// their tree-sitter grammars.
package lang

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language identifies a supported grammar. The zero value is Unsupported.
type Language int

const (
	Unsupported Language = iota
	Bash
	C
	CPP
	CSharp
	CSS
	Elixir
	Go
	HCL
	HTML
	Java
	JavaScript
	Kotlin
	Lua
	PHP
	Python
	Ruby
	Rust
	Scala
	TOML
	TSX
	TypeScript
	YAML
)

// ErrUnsupported is returned when a language has no grammar.
var ErrUnsupported = errors.New("unsupported language")

// definition describes how a language is detected and parsed.
type definition struct {
	name       string
	extensions []string
	queryDirs  []string
	grammar    func() *sitter.Language
}

var (
	// registry holds all registered languages.
	registry = make(map[Language]definition)
	byExt    = make(map[string]Language)
	byDir    = make(map[string]Language)
	byName   = make(map[string]Language)

	// grammars is filled on first use; GetLanguage allocates a fresh wrapper
	// on every call.
	grammars     map[Language]*sitter.Language
	grammarsOnce sync.Once
)

// register adds a language to the registry.
// This is called from init() in grammars.go.
func register(l Language, def definition) {
	registry[l] = def
	byName[def.name] = l
	for _, ext := range def.extensions {
		byExt[ext] = l
	}
	for _, dir := range def.queryDirs {
		byDir[dir] = l
	}
}

func initGrammars() {
	grammarsOnce.Do(func() {
		grammars = make(map[Language]*sitter.Language, len(registry))
		for l, def := range registry {
			grammars[l] = def.grammar()
		}
	})
}

// String returns the display name, e.g. "Go" or "C++".
func (l Language) String() string {
	if def, ok := registry[l]; ok {
		return def.name
	}
	return "Unsupported"
}

// Supported reports whether l has a grammar.
func (l Language) Supported() bool {
	_, ok := registry[l]
	return ok
}

// Extensions returns the file extensions mapped to l, including the dot.
func (l Language) Extensions() []string {
	return registry[l].extensions
}

// QueryDirs returns the directory names under a query root that hold
// query files for l.
func (l Language) QueryDirs() []string {
	return registry[l].queryDirs
}

// Grammar returns the tree-sitter grammar for l.
func (l Language) Grammar() (*sitter.Language, error) {
	if !l.Supported() {
		return nil, ErrUnsupported
	}
	initGrammars()
	return grammars[l], nil
}

// FromPath detects the language of a file from its extension.
// Unknown extensions map to Unsupported.
func FromPath(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Unsupported
	}
	return byExt[ext]
}

// FromDirName maps a query directory name such as "rust" or "c_sharp" to
// its language. Unknown names map to Unsupported.
func FromDirName(name string) Language {
	return byDir[name]
}

// ByName finds a language by its display name. "Unsupported" is accepted so
// that unsupported files can be filtered like any other language.
func ByName(name string) (Language, bool) {
	if name == Unsupported.String() {
		return Unsupported, true
	}
	l, ok := byName[name]
	return l, ok
}

// List returns all supported languages ordered by display name.
func List() []Language {
	langs := make([]Language, 0, len(registry))
	for l := range registry {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		return langs[i].String() < langs[j].String()
	})
	return langs
}

// QueryDirNames returns every known query directory name in lexical order.
func QueryDirNames() []string {
	names := make([]string, 0, len(byDir))
	for name := range byDir {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
