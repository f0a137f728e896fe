package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/output"
	"github.com/tcount-dev/tcount/query"
	"github.com/tcount-dev/tcount/scanner"
	"github.com/tcount-dev/tcount/tcount"
)

const description = `Counts tokens, tree-sitter node kinds and query results in source files.

Queries are looked up as {root}/{language}/{name}.scm in ./.tcount_queries,
then in the directories under $XDG_CONFIG_HOME/tcount (~/.config/tcount) taken
together, then in the built-in queries. The first root that defines the query
for any language is the only one used, so a project query defined only for
Rust hides the built-in query of the same name for every other language.`

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		output.WriteError(err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                      "tcount",
		Usage:                     "count tokens and tree-sitter node kinds in source code",
		ArgsUsage:                 "[path ...]",
		Description:               description,
		DisableSliceFlagSeparator: true,
		Writer:                    os.Stdout,
		ErrWriter:                 os.Stderr,
		Flags:                     flags(),
		Action:                    run,
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "0: fatal errors only, 1: file errors, 2: parse errors, 3: skipped files",
			Sources: cli.EnvVars("TCOUNT_VERBOSE"),
		},
		&cli.StringSliceFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "count nodes of this kind (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "kind-pattern",
			Aliases: []string{"p"},
			Usage:   "count nodes whose kind matches this regular expression (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "query",
			Usage: "count matches of a query, or captures with name@capture,... (repeatable)",
		},
		&cli.StringFlag{
			Name:    "sort-by",
			Value:   "tokens",
			Usage:   "group, numfiles or tokens",
			Sources: cli.EnvVars("TCOUNT_SORT_BY"),
		},
		&cli.StringFlag{
			Name:    "group-by",
			Value:   "language",
			Usage:   "language, file or arg",
			Sources: cli.EnvVars("TCOUNT_GROUP_BY"),
		},
		&cli.StringFlag{
			Name:    "format",
			Value:   "table",
			Usage:   "table, csv or json",
			Sources: cli.EnvVars("TCOUNT_FORMAT"),
		},
		&cli.BoolFlag{
			Name:  "no-git",
			Usage: "ignore .gitignore, .git/info/exclude and the global excludes file",
		},
		&cli.BoolFlag{
			Name:  "no-dot-ignore",
			Usage: "ignore .ignore files",
		},
		&cli.BoolFlag{
			Name:  "no-parent-ignore",
			Usage: "ignore ignore files in parent directories",
		},
		&cli.BoolFlag{
			Name:  "count-hidden",
			Usage: "count hidden files and directories",
		},
		&cli.StringSliceFlag{
			Name:  "whitelist",
			Usage: "only count these languages; overrides --blacklist (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "blacklist",
			Usage: "do not count these languages (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "list-languages",
			Usage: "list supported languages and exit",
		},
		&cli.BoolFlag{
			Name:  "show-totals",
			Usage: "add a TOTALS row",
		},
		&cli.Int64Flag{
			Name:    "max-bytes",
			Usage:   "skip walked files larger than this many bytes (0: no limit)",
			Sources: cli.EnvVars("TCOUNT_MAX_BYTES"),
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "show only the first N rows",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of parallel workers",
			Sources: cli.EnvVars("TCOUNT_JOBS"),
		},
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	verbose := cmd.Int("verbose")
	logger := newLogger(cmd.ErrWriter, verbose)
	slog.SetDefault(logger)

	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	w := output.New(output.Config{Format: format, Output: cmd.Writer})

	if cmd.Bool("list-languages") {
		return w.WriteLanguages(languageInfos())
	}

	groupBy, err := tcount.ParseGroupBy(cmd.String("group-by"))
	if err != nil {
		return err
	}
	sortBy, err := tcount.ParseSortBy(cmd.String("sort-by"))
	if err != nil {
		return err
	}
	whitelist, err := parseLanguages(cmd.StringSlice("whitelist"))
	if err != nil {
		return err
	}
	blacklist, err := parseLanguages(cmd.StringSlice("blacklist"))
	if err != nil {
		return err
	}
	roots, err := query.SearchRootsFromEnv()
	if err != nil {
		return fmt.Errorf("query roots: %w", err)
	}

	opts := tcount.Options{
		Paths:        cmd.Args().Slice(),
		Kinds:        cmd.StringSlice("kind"),
		KindPatterns: cmd.StringSlice("kind-pattern"),
		Queries:      cmd.StringSlice("query"),
		Roots:        roots,
		GroupBy:      groupBy,
		Jobs:         cmd.Int("jobs"),
		Scanner: scanner.Config{
			NoGit:          cmd.Bool("no-git"),
			NoDotIgnore:    cmd.Bool("no-dot-ignore"),
			NoParentIgnore: cmd.Bool("no-parent-ignore"),
			CountHidden:    cmd.Bool("count-hidden"),
			MaxBytes:       cmd.Int64("max-bytes"),
		},
		Whitelist: whitelist,
		Blacklist: blacklist,
		Logger:    logger,
	}

	res, err := tcount.Count(ctx, opts)
	if err != nil {
		return err
	}

	for _, n := range res.Notices {
		if n.ShouldShow(verbose) {
			logger.Warn("file.skipped", "kind", n.Kind.String(), "path", n.Path, "error", n.Err)
		}
	}

	return w.WriteReport(res.Report(sortBy, cmd.Int("top"), cmd.Bool("show-totals")))
}

// newLogger maps --verbose onto a text handler level.
func newLogger(w io.Writer, verbose int) *slog.Logger {
	level := slog.LevelError
	switch {
	case verbose >= 3:
		level = slog.LevelDebug
	case verbose == 2:
		level = slog.LevelInfo
	case verbose == 1:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLanguages(names []string) ([]lang.Language, error) {
	langs := make([]lang.Language, 0, len(names))
	for _, name := range names {
		l, ok := lang.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown language %q (see --list-languages)", name)
		}
		langs = append(langs, l)
	}
	return langs, nil
}

func languageInfos() []output.LanguageInfo {
	var infos []output.LanguageInfo
	for _, l := range lang.List() {
		infos = append(infos, output.LanguageInfo{
			Name:       l.String(),
			Extensions: l.Extensions(),
			QueryDirs:  l.QueryDirs(),
		})
	}
	return infos
}
