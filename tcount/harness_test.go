package tcount

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/query"
)

func TestDataDriven(t *testing.T) {
	builtin, err := query.BuiltinFS()
	require.NoError(t, err)

	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		path, err := filepath.Abs(path)
		require.NoError(t, err)

		// Files are created relative to a temp working directory so that
		// display paths are stable.
		t.Chdir(t.TempDir())
		roots := query.SearchRootConfig{
			Project: memfs.New(),
			Builtin: builtin,
		}

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return handleFile(t, d)
			case "query-file":
				return handleQueryFile(t, d, roots.Project)
			case "count":
				return handleCount(t, d, roots)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleFile creates a file in the working directory
func handleFile(t *testing.T, d *datadriven.TestData) string {
	var name string
	d.ScanArgs(t, "name", &name)

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(d.Input), 0o644))
	return ""
}

// handleQueryFile writes a query into the project query root
func handleQueryFile(t *testing.T, d *datadriven.TestData, project billy.Filesystem) string {
	var path string
	d.ScanArgs(t, "path", &path)
	require.NoError(t, util.WriteFile(project, path, []byte(d.Input), 0o644))
	return ""
}

// handleCount runs Count() and formats the report. Token counts are left out
// unless "tokens" is given; notices are listed when "notices" is given.
func handleCount(t *testing.T, d *datadriven.TestData, roots query.SearchRootConfig) string {
	opts := Options{
		Roots: roots,
		Jobs:  2,
	}
	sortBy := SortByGroup
	top := 0
	totals, tokens, notices := false, false, false

	for _, arg := range d.CmdArgs {
		var err error
		switch arg.Key {
		case "paths":
			opts.Paths = append(opts.Paths, arg.Vals...)
		case "kind":
			opts.Kinds = append(opts.Kinds, arg.Vals...)
		case "pattern":
			opts.KindPatterns = append(opts.KindPatterns, arg.Vals...)
		case "query":
			opts.Queries = append(opts.Queries, arg.Vals...)
		case "group-by":
			opts.GroupBy, err = ParseGroupBy(arg.Vals[0])
		case "sort-by":
			sortBy, err = ParseSortBy(arg.Vals[0])
		case "top":
			d.ScanArgs(t, "top", &top)
		case "whitelist":
			opts.Whitelist = parseLanguages(t, arg.Vals)
		case "blacklist":
			opts.Blacklist = parseLanguages(t, arg.Vals)
		case "hidden":
			opts.Scanner.CountHidden = true
		case "totals":
			totals = true
		case "tokens":
			tokens = true
		case "notices":
			notices = true
		default:
			t.Fatalf("unknown argument: %s", arg.Key)
		}
		require.NoError(t, err)
	}

	res, err := Count(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	if res.Empty() {
		return "(no files)"
	}

	rep := res.Report(sortBy, top, totals)
	lines := []string{formatRow(rep.Headers, tokens)}
	for _, row := range rep.Rows {
		lines = append(lines, formatRow(cells(row.Group, row.Values), tokens))
	}
	if rep.Totals != nil {
		lines = append(lines, formatRow(cells(rep.Totals.Group, rep.Totals.Values), tokens))
	}
	if notices {
		for _, n := range res.Notices {
			lines = append(lines, fmt.Sprintf("%s %s", n.Kind, n.Path))
		}
	}
	return strings.Join(lines, "\n")
}

func parseLanguages(t *testing.T, names []string) []lang.Language {
	var out []lang.Language
	for _, name := range names {
		l, ok := lang.ByName(name)
		require.True(t, ok, "unknown language %s", name)
		out = append(out, l)
	}
	return out
}

func cells(group string, values []uint64) []string {
	out := []string{group}
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// formatRow joins cells with commas, dropping the Tokens column (index 2)
// unless tokens is set.
func formatRow(row []string, tokens bool) string {
	if !tokens && len(row) > 2 {
		row = append(row[:2:2], row[3:]...)
	}
	return strings.Join(row, ",")
}
