package tcount

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/query"
	"github.com/tcount-dev/tcount/scanner"
)

// GroupBy selects the key rows are aggregated under.
type GroupBy int

const (
	GroupByLanguage GroupBy = iota
	GroupByFile
	GroupByArg
)

func (g GroupBy) String() string {
	switch g {
	case GroupByFile:
		return "file"
	case GroupByArg:
		return "arg"
	default:
		return "language"
	}
}

// ParseGroupBy parses "language", "file" or "arg".
func ParseGroupBy(s string) (GroupBy, error) {
	switch s {
	case "language", "":
		return GroupByLanguage, nil
	case "file":
		return GroupByFile, nil
	case "arg":
		return GroupByArg, nil
	}
	return 0, fmt.Errorf("unknown group-by %q (want language, file or arg)", s)
}

// SortBy selects the row order.
type SortBy int

const (
	// SortByGroup orders rows by key, ascending.
	SortByGroup SortBy = iota
	// SortByFiles orders rows by file count, descending.
	SortByFiles
	// SortByTokens orders rows by token count, descending.
	SortByTokens
)

func (s SortBy) String() string {
	switch s {
	case SortByFiles:
		return "numfiles"
	case SortByTokens:
		return "tokens"
	default:
		return "group"
	}
}

// ParseSortBy parses "group", "numfiles" or "tokens".
func ParseSortBy(s string) (SortBy, error) {
	switch s {
	case "group", "":
		return SortByGroup, nil
	case "numfiles":
		return SortByFiles, nil
	case "tokens":
		return SortByTokens, nil
	}
	return 0, fmt.Errorf("unknown sort-by %q (want group, numfiles or tokens)", s)
}

// Options configures the Count function.
type Options struct {
	// Paths are the files and directories to count.
	// If empty, the current directory is used.
	Paths []string

	// Kinds are node kinds counted by exact name.
	Kinds []string

	// KindPatterns are regular expressions matched against node kinds.
	KindPatterns []string

	// Queries are query specifiers: name or name@capture,capture.
	Queries []string

	// Roots are the query search roots, normally from
	// query.SearchRootsFromEnv. With the zero value every query fails to
	// resolve.
	Roots query.SearchRootConfig

	// GroupBy selects the row key.
	GroupBy GroupBy

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// Scanner configures file discovery.
	Scanner scanner.Config

	// Whitelist restricts counting to these languages. It takes precedence
	// over Blacklist.
	Whitelist []lang.Language

	// Blacklist excludes these languages.
	Blacklist []lang.Language

	// Logger receives progress events. Defaults to slog.Default().
	Logger *slog.Logger
}

// allowed reports whether files of language l are counted.
func (o *Options) allowed(l lang.Language) bool {
	if len(o.Whitelist) > 0 {
		return slices.Contains(o.Whitelist, l)
	}
	return !slices.Contains(o.Blacklist, l)
}
