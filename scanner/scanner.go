// Package scanner discovers the files to count under each command-line
// argument, honoring .gitignore, .ignore and git exclude files.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/tcount-dev/tcount/types"
)

const (
	gitDir          = ".git"
	gitignoreFile   = ".gitignore"
	dotIgnoreFile   = ".ignore"
	infoExcludeFile = ".git/info/exclude"
	gitconfigFile   = ".gitconfig"
)

// DefaultIgnoreDirs returns the version control directories that are never
// descended into.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git": {},
		".hg":  {},
		".svn": {},
		".jj":  {},
	}
}

// Config holds scanner configuration.
type Config struct {
	// NoGit disables .gitignore, .git/info/exclude and the global excludes
	// file.
	NoGit bool

	// NoDotIgnore disables .ignore files.
	NoDotIgnore bool

	// NoParentIgnore disables ignore files found above each argument.
	NoParentIgnore bool

	// CountHidden descends into hidden files and directories.
	CountHidden bool

	// IgnoreDirs are directory names that are always skipped.
	// Defaults to DefaultIgnoreDirs.
	IgnoreDirs map[string]struct{}

	// MaxBytes skips walked files larger than this size. 0 means no limit.
	// Files named directly by an argument are never skipped.
	MaxBytes int64
}

// Scanner discovers files for counting. It is safe for concurrent use.
type Scanner struct {
	cfg Config
	fs  billy.Filesystem

	globalOnce sync.Once
	global     []byte // lines of core.excludesfile
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	return &Scanner{
		cfg: cfg,
		fs:  osfs.New("/"),
	}
}

// dirState is what a directory passes down to its children.
type dirState struct {
	patterns []gitignore.Pattern
	inRepo   bool
}

// Walk streams every file under arg to emit. Problems with individual
// entries go to report and do not stop the walk; Walk only fails when ctx is
// done or emit returns an error. A file named directly by arg is always
// emitted.
func (s *Scanner) Walk(ctx context.Context, arg string, emit func(types.FileJob) error, report func(types.Notice)) error {
	absArg, err := filepath.Abs(arg)
	if err != nil {
		report(types.Notice{Kind: types.NoticeWalk, Path: arg, Err: fmt.Errorf("resolve path: %w", err)})
		return nil
	}

	info, err := os.Stat(absArg)
	if err != nil {
		report(types.Notice{Kind: types.NoticeWalk, Path: arg, Err: err})
		return nil
	}
	if !info.IsDir() {
		return emit(types.FileJob{AbsPath: absArg, Path: arg, Arg: arg})
	}

	states := map[string]dirState{
		filepath.Dir(absArg): s.parentState(absArg),
	}

	return filepath.WalkDir(absArg, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			report(types.Notice{Kind: types.NoticeWalk, Path: s.display(arg, absArg, path), Err: err})
			return nil
		}

		name := d.Name()
		isDir := d.IsDir()
		parent := states[filepath.Dir(path)]

		if path != absArg {
			if isDir && s.ignoredDir(name) {
				return filepath.SkipDir
			}
			if !s.cfg.CountHidden && strings.HasPrefix(name, ".") {
				return skip(isDir)
			}
			if gitignore.NewMatcher(parent.patterns).Match(components(path), isDir) {
				return skip(isDir)
			}
		}

		if isDir {
			states[path] = s.enterDir(path, parent, report)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				report(types.Notice{Kind: types.NoticeIO, Path: s.display(arg, absArg, path), Err: err})
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				report(types.Notice{Kind: types.NoticeTooLarge, Path: s.display(arg, absArg, path)})
				return nil
			}
		}

		return emit(types.FileJob{
			AbsPath: path,
			Path:    s.display(arg, absArg, path),
			Arg:     arg,
		})
	})
}

func skip(isDir bool) error {
	if isDir {
		return filepath.SkipDir
	}
	return nil
}

func (s *Scanner) ignoredDir(name string) bool {
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}

// display joins arg and the path below it with a forward slash, so "." and
// "main.go" show as "./main.go".
func (s *Scanner) display(arg, absArg, path string) string {
	rel, err := filepath.Rel(absArg, path)
	if err != nil {
		return path
	}
	if rel == "." {
		return arg
	}
	return strings.TrimSuffix(arg, "/") + "/" + filepath.ToSlash(rel)
}

// enterDir extends parent with the ignore files found in dir.
func (s *Scanner) enterDir(dir string, parent dirState, report func(types.Notice)) dirState {
	state := dirState{
		patterns: parent.patterns,
		inRepo:   parent.inRepo || s.isRepoRoot(dir),
	}
	if !parent.inRepo && state.inRepo && !s.cfg.NoGit {
		state.patterns = s.appendGlobal(state.patterns, dir)
		state.patterns = s.appendFile(state.patterns, dir, infoExcludeFile, report)
	}
	state.patterns = s.appendDirFiles(state.patterns, dir, state.inRepo, report)
	return state
}

// parentState loads the ignore files above root: up to the enclosing
// repository's root, or up to the filesystem root outside a repository.
func (s *Scanner) parentState(root string) dirState {
	var above []string // nearest first
	repoRoot := ""
	for dir := root; ; {
		if s.isRepoRoot(dir) {
			repoRoot = dir
			break
		}
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		above = append(above, next)
		dir = next
	}

	var state dirState
	if repoRoot == root {
		// enterDir picks up the repository-wide excludes.
		return state
	}
	if repoRoot != "" {
		state.inRepo = true
		if !s.cfg.NoGit {
			state.patterns = s.appendGlobal(state.patterns, repoRoot)
			state.patterns = s.appendFile(state.patterns, repoRoot, infoExcludeFile, discard)
		}
	}
	if s.cfg.NoParentIgnore {
		return state
	}
	for i := len(above) - 1; i >= 0; i-- {
		state.patterns = s.appendDirFiles(state.patterns, above[i], state.inRepo, discard)
	}
	return state
}

func discard(types.Notice) {}

func (s *Scanner) appendDirFiles(ps []gitignore.Pattern, dir string, inRepo bool, report func(types.Notice)) []gitignore.Pattern {
	if inRepo && !s.cfg.NoGit {
		ps = s.appendFile(ps, dir, gitignoreFile, report)
	}
	if !s.cfg.NoDotIgnore {
		ps = s.appendFile(ps, dir, dotIgnoreFile, report)
	}
	return ps
}

// appendFile parses dir/name and appends its patterns.
func (s *Scanner) appendFile(ps []gitignore.Pattern, dir, name string, report func(types.Notice)) []gitignore.Pattern {
	file := filepath.Join(dir, filepath.FromSlash(name))
	data, err := util.ReadFile(s.fs, file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			report(types.Notice{Kind: types.NoticeIO, Path: file, Err: err})
		}
		return ps
	}

	return appendPatterns(ps, data, components(dir))
}

// appendGlobal appends the core.excludesfile patterns, anchored at repoRoot
// like .git/info/exclude.
func (s *Scanner) appendGlobal(ps []gitignore.Pattern, repoRoot string) []gitignore.Pattern {
	s.globalOnce.Do(func() {
		// A broken ~/.gitconfig only disables the global excludes.
		s.global, _ = s.loadGlobal()
	})
	if len(s.global) == 0 {
		return ps
	}
	return appendPatterns(ps, s.global, components(repoRoot))
}

// loadGlobal reads the file named by core.excludesfile in ~/.gitconfig.
func (s *Scanner) loadGlobal() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	data, err := util.ReadFile(s.fs, filepath.Join(home, gitconfigFile))
	if err != nil {
		return nil, err
	}
	raw := config.New()
	if err := config.NewDecoder(bytes.NewReader(data)).Decode(raw); err != nil {
		return nil, err
	}
	file := raw.Section("core").Options.Get("excludesfile")
	if file == "" {
		return nil, nil
	}
	if file == "~" || strings.HasPrefix(file, "~/") {
		file = filepath.Join(home, file[1:])
	}
	return util.ReadFile(s.fs, file)
}

// appendPatterns parses gitignore lines under domain. The result never
// aliases ps so sibling directories do not see each other's patterns.
func appendPatterns(ps []gitignore.Pattern, data []byte, domain []string) []gitignore.Pattern {
	out := append([]gitignore.Pattern(nil), ps...)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, gitignore.ParsePattern(line, domain))
	}
	return out
}

func (s *Scanner) isRepoRoot(dir string) bool {
	_, err := s.fs.Stat(filepath.Join(dir, gitDir))
	return err == nil
}

// components splits an absolute path into the segments gitignore patterns
// match against.
func components(path string) []string {
	path = strings.Trim(filepath.ToSlash(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
