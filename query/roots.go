package query

import (
	"embed"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	// ProjectDirName is the query directory looked up in the working directory.
	ProjectDirName = ".tcount_queries"

	// UserDirName is the directory under the config home whose
	// subdirectories are query directories.
	UserDirName = "tcount"
)

//go:embed queries
var builtinQueries embed.FS

// Root is one candidate query root. Each of its directories is laid out as
// {language-dir}/{query-name}.scm; for every language the first directory
// holding the query wins.
type Root struct {
	Label string
	Dirs  []billy.Filesystem
}

// SearchRootConfig holds the query directories in precedence order. Any of
// them may be nil.
type SearchRootConfig struct {
	// Project is the query directory of the current project.
	Project billy.Filesystem

	// User is a directory of query directories. Its immediate
	// subdirectories, in lexical order, together form one root.
	User billy.Filesystem

	// Builtin holds the queries shipped with the binary.
	Builtin billy.Filesystem
}

// NewSearchRootConfig builds the standard roots: {cwd}/.tcount_queries,
// {configHome}/tcount/* (configHome defaults to {home}/.config) and the
// built-in queries.
func NewSearchRootConfig(cwd, configHome, home string) (SearchRootConfig, error) {
	if configHome == "" && home != "" {
		configHome = filepath.Join(home, ".config")
	}

	builtin, err := BuiltinFS()
	if err != nil {
		return SearchRootConfig{}, err
	}

	cfg := SearchRootConfig{Builtin: builtin}
	if cwd != "" {
		cfg.Project = osfs.New(filepath.Join(cwd, ProjectDirName))
	}
	if configHome != "" {
		cfg.User = osfs.New(filepath.Join(configHome, UserDirName))
	}
	return cfg, nil
}

// SearchRootsFromEnv reads the working directory, XDG_CONFIG_HOME and the
// user's home directory.
func SearchRootsFromEnv() (SearchRootConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return SearchRootConfig{}, err
	}
	// A missing home only disables the user root.
	home, _ := os.UserHomeDir()
	return NewSearchRootConfig(cwd, os.Getenv("XDG_CONFIG_HOME"), home)
}

// BuiltinFS copies the embedded queries into an in-memory filesystem.
func BuiltinFS() (billy.Filesystem, error) {
	mem := memfs.New()
	err := fs.WalkDir(builtinQueries, "queries", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtinQueries.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("queries", path)
		if err != nil {
			return err
		}
		return util.WriteFile(mem, filepath.ToSlash(rel), data, 0o644)
	})
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// Roots yields candidate roots lazily in precedence order. User
// subdirectories are listed only when the project root did not resolve.
func (c SearchRootConfig) Roots() iter.Seq[Root] {
	return func(yield func(Root) bool) {
		if c.Project != nil {
			if !yield(Root{Label: "project", Dirs: []billy.Filesystem{c.Project}}) {
				return
			}
		}
		if c.User != nil {
			var dirs []billy.Filesystem
			for _, name := range subdirs(c.User) {
				sub, err := c.User.Chroot(name)
				if err != nil {
					continue
				}
				dirs = append(dirs, sub)
			}
			if len(dirs) > 0 && !yield(Root{Label: "user", Dirs: dirs}) {
				return
			}
		}
		if c.Builtin != nil {
			yield(Root{Label: "builtin", Dirs: []billy.Filesystem{c.Builtin}})
		}
	}
}

// subdirs lists the immediate subdirectories of fsys in lexical order.
// A missing or unreadable directory yields nothing.
func subdirs(fsys billy.Filesystem) []string {
	infos, err := fsys.ReadDir("/")
	if err != nil {
		return nil
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names
}
