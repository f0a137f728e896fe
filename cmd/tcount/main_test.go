package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcount-dev/tcount/lang"
	"github.com/tcount-dev/tcount/output"
)

func TestParseLanguages(t *testing.T) {
	langs, err := parseLanguages([]string{"Rust", "C++", "Unsupported"})
	require.NoError(t, err)
	require.Equal(t, []lang.Language{lang.Rust, lang.CPP, lang.Unsupported}, langs)

	_, err = parseLanguages([]string{"rust"})
	require.EqualError(t, err, `unknown language "rust" (see --list-languages)`)
}

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		verbose int
		lowest  slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{7, slog.LevelDebug},
	}
	for _, tc := range tests {
		logger := newLogger(io.Discard, tc.verbose)
		require.True(t, logger.Enabled(ctx, tc.lowest), "verbose %d", tc.verbose)
		require.False(t, logger.Enabled(ctx, tc.lowest-1), "verbose %d", tc.verbose)
	}
}

func TestLanguageInfos(t *testing.T) {
	infos := languageInfos()
	require.Len(t, infos, len(lang.List()))
	for _, info := range infos {
		if info.Name == "C#" {
			require.Equal(t, []string{"c_sharp", "csharp"}, info.QueryDirs)
		}
		require.NotEmpty(t, info.Extensions, info.Name)
	}
}

// runCommand runs tcount in a fresh project directory holding files and
// returns stdout and stderr.
func runCommand(t *testing.T, files map[string]string, args ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	require.NoError(t, cmd.Run(context.Background(), append([]string{"tcount"}, args...)))
	return stdout.String(), stderr.String()
}

var sampleProject = map[string]string{
	"a.go":      "package a\n\n// one\nfunc A() {}\n",
	"notes.txt": "hello\n",
}

func TestCommandJSON(t *testing.T) {
	stdout, _ := runCommand(t, sampleProject, "--format", "json", "--kind", "comment", "--show-totals")

	var rep output.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	require.Equal(t, []string{"Group", "Files", "Tokens", "Kind(comment)"}, rep.Headers)
	require.Len(t, rep.Rows, 2)
	require.Equal(t, "Go", rep.Rows[0].Group)
	require.Equal(t, uint64(1), rep.Rows[0].Values[0])
	require.Equal(t, uint64(1), rep.Rows[0].Values[2])
	require.Equal(t, "Unsupported", rep.Rows[1].Group)
	require.Equal(t, []uint64{1, 0, 0}, rep.Rows[1].Values)
	require.Equal(t, output.TotalsLabel, rep.Totals.Group)
	require.Equal(t, uint64(2), rep.Totals.Values[0])
}

func TestCommandFlagsReachOptions(t *testing.T) {
	stdout, _ := runCommand(t, sampleProject,
		"--format", "csv", "--group-by", "file", "--sort-by", "group", "--whitelist", "Go", ".")
	require.True(t, strings.HasPrefix(stdout, "Group,Files,Tokens\n"), stdout)
	require.Contains(t, stdout, "./a.go,1,")
	require.NotContains(t, stdout, "notes.txt")

	stdout, _ = runCommand(t, sampleProject, "--format", "csv", "--max-bytes", "8")
	require.Equal(t, "Group,Files,Tokens\nUnsupported,1,0\n", stdout, "a.go is over the cap")
}

func TestCommandEmptyResult(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"table", output.NoFilesMessage + "\n"},
		{"csv", "Group,Files,Tokens\n"},
		{"json", `{"headers": ["Group", "Files", "Tokens"], "rows": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			stdout, _ := runCommand(t, nil, "--format", tc.format)
			if tc.format == "json" {
				require.JSONEq(t, tc.want, stdout)
				return
			}
			require.Equal(t, tc.want, stdout)
		})
	}
}

func TestCommandNoticeVerbosity(t *testing.T) {
	_, stderr := runCommand(t, sampleProject, "--verbose", "1")
	require.NotContains(t, stderr, "notes.txt")

	_, stderr = runCommand(t, sampleProject, "--verbose", "3")
	require.Contains(t, stderr, "kind=unsupported")
	require.Contains(t, stderr, "path=./notes.txt")
}
