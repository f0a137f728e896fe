package count

import (
	"context"
	"fmt"
	"regexp"
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
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		// Query files written by "query-file" land in an in-memory project root.
		project := memfs.New()

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "query-file":
				return handleQueryFile(t, d, project)
			case "count":
				return handleCount(t, d, project)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleQueryFile writes a query definition, e.g. "query-file path=go/foo.scm".
func handleQueryFile(t *testing.T, d *datadriven.TestData, project billy.Filesystem) string {
	var path string
	d.ScanArgs(t, "path", &path)
	require.NoError(t, util.WriteFile(project, path, []byte(d.Input), 0o644))
	return ""
}

// handleCount counts d.Input. Arguments may repeat:
//
//	count lang=go kind=comment pattern=.*comment query=foo@bar,baz
func handleCount(t *testing.T, d *datadriven.TestData, project billy.Filesystem) string {
	resolver, err := query.NewResolver(query.SearchRootConfig{Project: project})
	require.NoError(t, err)

	language := lang.Unsupported
	var kinds []string
	var patterns []*regexp.Regexp
	var queries []*query.Query
	showTokens := false

	for _, arg := range d.CmdArgs {
		switch arg.Key {
		case "lang":
			language = lang.FromDirName(arg.Vals[0])
		case "kind":
			kinds = append(kinds, arg.Vals...)
		case "pattern":
			for _, v := range arg.Vals {
				patterns = append(patterns, regexp.MustCompile(v))
			}
		case "query":
			for _, v := range arg.Vals {
				q, err := resolver.Resolve(v)
				if err != nil {
					return fmt.Sprintf("error: %s", err)
				}
				queries = append(queries, q)
			}
		case "tokens":
			showTokens = true
		default:
			t.Fatalf("unknown argument: %s", arg.Key)
		}
	}

	counters := NewCounters(kinds, patterns, queries)
	e := NewEngine(counters)
	defer e.Close()

	c, err := e.Count(context.Background(), "input", []byte(d.Input), language)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}

	return formatCounts(counters, c, showTokens)
}

func formatCounts(counters *Counters, c Counts, showTokens bool) string {
	lines := []string{fmt.Sprintf("files=%d", c.Files)}
	if showTokens {
		lines = append(lines, fmt.Sprintf("tokens=%d", c.Tokens))
	}
	values := c.Values()[2:]
	for i, label := range counters.Labels() {
		lines = append(lines, fmt.Sprintf("%s=%d", label, values[i]))
	}
	return strings.Join(lines, "\n")
}
