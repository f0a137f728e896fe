// Package tcount counts tokens, node kinds and query results over source
// trees and aggregates them into groups.
package tcount

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tcount-dev/tcount/count"
	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/output"
	"github.com/tcount-dev/tcount/query"
	"github.com/tcount-dev/tcount/scanner"
	"github.com/tcount-dev/tcount/types"
)

// Result is the outcome of a run.
type Result struct {
	Counters *count.Counters
	Groups   *Groups

	// Notices are the per-file problems, ordered by path.
	Notices []types.Notice
}

// Empty reports whether no file was counted.
func (r *Result) Empty() bool {
	return r.Groups.Totals().Files == 0
}

// Headers returns the report column headers.
func (r *Result) Headers() []string {
	return append([]string{"Group", "Files", "Tokens"}, r.Counters.Labels()...)
}

// Report lays the result out for rendering.
func (r *Result) Report(sortBy SortBy, top int, totals bool) output.Report {
	rows := r.Groups.Rows(sortBy, top)
	rep := output.Report{
		Headers: r.Headers(),
		Rows:    make([]output.Row, 0, len(rows)),
	}
	for _, row := range rows {
		rep.Rows = append(rep.Rows, output.Row{Group: row.Key, Values: row.Counts.Values()})
	}
	if totals {
		rep.Totals = &output.Row{Group: output.TotalsLabel, Values: r.Groups.Totals().Values()}
	}
	return rep
}

// Prepare compiles the kind patterns and resolves the queries in opts. Any
// failure here is a configuration error: nothing has been read yet.
func Prepare(opts Options) (*count.Counters, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	patterns := make([]*regexp.Regexp, 0, len(opts.KindPatterns))
	for _, p := range opts.KindPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid kind pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	resolver, err := query.NewResolver(opts.Roots, query.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	queries, err := resolver.ResolveAll(opts.Queries)
	if err != nil {
		return nil, err
	}

	return count.NewCounters(opts.Kinds, patterns, queries), nil
}

// Count resolves the counters in opts, then walks every path and counts the
// files it finds in parallel.
func Count(ctx context.Context, opts Options) (*Result, error) {
	counters, err := Prepare(opts)
	if err != nil {
		return nil, err
	}
	return Run(ctx, counters, opts)
}

// Run counts every file under opts.Paths with counters. One goroutine walks
// the paths and feeds a pool of workers; each worker accumulates its own
// Groups, which are folded once all workers finish.
func Run(ctx context.Context, counters *count.Counters, opts Options) (*Result, error) {
	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}
	if opts.Jobs < 1 {
		opts.Jobs = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	logger.Info("count.start", "paths", len(opts.Paths), "jobs", opts.Jobs, "group_by", opts.GroupBy.String())

	g, gctx := errgroup.WithContext(ctx)
	jobQueue := make(chan types.FileJob, 128)

	var walkNotices []types.Notice
	g.Go(func() error {
		defer close(jobQueue)
		sc := scanner.New(opts.Scanner)
		report := func(n types.Notice) {
			walkNotices = append(walkNotices, n)
		}
		for _, arg := range opts.Paths {
			err := sc.Walk(gctx, arg, func(job types.FileJob) error {
				select {
				case jobQueue <- job:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			}, report)
			if err != nil {
				return err
			}
		}
		return nil
	})

	workers := make([]*worker, opts.Jobs)
	for i := range workers {
		w := &worker{
			opts:   &opts,
			engine: count.NewEngine(counters),
			groups: NewGroups(counters),
		}
		workers[i] = w
		g.Go(func() error {
			defer w.engine.Close()
			return w.run(gctx, jobQueue)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Counters: counters,
		Groups:   NewGroups(counters),
		Notices:  walkNotices,
	}
	for _, w := range workers {
		res.Groups.Merge(w.groups)
		res.Notices = append(res.Notices, w.notices...)
	}
	sort.SliceStable(res.Notices, func(i, j int) bool {
		return res.Notices[i].Path < res.Notices[j].Path
	})

	logger.Info("count.done",
		"groups", res.Groups.Len(),
		"files", res.Groups.Totals().Files,
		"notices", len(res.Notices),
		"elapsed", time.Since(start),
	)
	return res, nil
}

type worker struct {
	opts    *Options
	engine  *count.Engine
	groups  *Groups
	notices []types.Notice
}

func (w *worker) run(ctx context.Context, jobs <-chan types.FileJob) error {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.process(ctx, job)
	}
	return nil
}

func (w *worker) process(ctx context.Context, job types.FileJob) {
	language := lang.FromPath(job.AbsPath)
	if !w.opts.allowed(language) {
		w.notice(types.NoticeLanguageIgnored, job.Path, nil)
		return
	}

	var text []byte
	if language.Supported() {
		var err error
		text, err = os.ReadFile(job.AbsPath)
		if err != nil {
			w.notice(types.NoticeIO, job.Path, err)
			return
		}
	} else {
		w.notice(types.NoticeUnsupported, job.Path, nil)
	}

	c, err := w.engine.Count(ctx, job.Path, text, language)
	if err != nil {
		w.notice(types.NoticeParse, job.Path, err)
		return
	}
	w.groups.Add(groupKey(w.opts.GroupBy, job, language), c)
}

func (w *worker) notice(kind types.NoticeKind, path string, err error) {
	w.notices = append(w.notices, types.Notice{Kind: kind, Path: path, Err: err})
}

func groupKey(by GroupBy, job types.FileJob, language lang.Language) string {
	switch by {
	case GroupByFile:
		return job.Path
	case GroupByArg:
		return job.Arg
	default:
		return language.String()
	}
}
