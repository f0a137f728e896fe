// Package types defines data shared by the scanner, the counting pipeline and
// the CLI.
package types

import "fmt"

// FileJob represents a file to be counted.
type FileJob struct {
	AbsPath string

	// Path is the display path: the argument joined with the path below it.
	Path string

	// Arg is the command-line argument the file was discovered under.
	Arg string
}

// NoticeKind classifies a per-file problem.
type NoticeKind int

const (
	// NoticeIO is a failure to read a file.
	NoticeIO NoticeKind = iota
	// NoticeWalk is a failure while walking a directory.
	NoticeWalk
	// NoticeParse is a file the parser produced no tree for.
	NoticeParse
	// NoticeUnsupported is a file with no known language.
	NoticeUnsupported
	// NoticeLanguageIgnored is a file dropped by --whitelist or --blacklist.
	NoticeLanguageIgnored
	// NoticeTooLarge is a file skipped by --max-bytes.
	NoticeTooLarge
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeIO:
		return "io"
	case NoticeWalk:
		return "walk"
	case NoticeParse:
		return "parse"
	case NoticeUnsupported:
		return "unsupported"
	case NoticeLanguageIgnored:
		return "language-ignored"
	case NoticeTooLarge:
		return "too-large"
	default:
		return fmt.Sprintf("NoticeKind(%d)", int(k))
	}
}

// MinVerbosity is the lowest --verbose level that shows the notice.
func (k NoticeKind) MinVerbosity() int {
	switch k {
	case NoticeIO, NoticeWalk:
		return 1
	case NoticeParse:
		return 2
	default:
		return 3
	}
}

// Notice is a recoverable per-file problem collected during a run.
type Notice struct {
	Kind NoticeKind
	Path string
	Err  error
}

// ShouldShow reports whether the notice is visible at verbosity level.
func (n Notice) ShouldShow(level int) bool {
	return level >= n.Kind.MinVerbosity()
}

func (n Notice) Error() string {
	switch {
	case n.Err != nil:
		return fmt.Sprintf("%s: %v", n.Path, n.Err)
	case n.Kind == NoticeUnsupported:
		return fmt.Sprintf("%s: unsupported language", n.Path)
	case n.Kind == NoticeLanguageIgnored:
		return fmt.Sprintf("%s: language ignored", n.Path)
	case n.Kind == NoticeTooLarge:
		return fmt.Sprintf("%s: file too large", n.Path)
	default:
		return n.Path
	}
}

func (n Notice) Unwrap() error {
	return n.Err
}
