package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name      string
		specifier string
		want      Spec
		wantErr   bool
	}{
		{"match", "comment", Spec{Name: "comment"}, false},
		{"single_capture", "foo@bar", Spec{Name: "foo", Captures: []string{"bar"}}, false},
		{"ordered_captures", "foo@baz,bar", Spec{Name: "foo", Captures: []string{"baz", "bar"}}, false},
		{"trimmed", " foo @ bar , baz ", Spec{Name: "foo", Captures: []string{"bar", "baz"}}, false},
		{"duplicates_dropped", "foo@a,b,a", Spec{Name: "foo", Captures: []string{"a", "b"}}, false},
		{"only_first_at_splits", "foo@a@b", Spec{Name: "foo", Captures: []string{"a@b"}}, false},
		{"empty_name", "@bar", Spec{}, true},
		{"empty", "", Spec{}, true},
		{"trailing_at", "foo@", Spec{}, true},
		{"empty_capture", "foo@a,,b", Spec{}, true},
		{"path_name", "../foo", Spec{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSpec(tc.specifier)
			if tc.wantErr {
				var invalid *InvalidSpecError
				require.True(t, errors.As(err, &invalid), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSpecLabels(t *testing.T) {
	match, err := ParseSpec("comment")
	require.NoError(t, err)
	require.True(t, match.IsMatch())
	require.Equal(t, 1, match.Width())
	require.Equal(t, []string{"Query(comment)"}, match.Labels())
	require.Equal(t, "comment", match.String())

	caps, err := ParseSpec("foo@bar,baz")
	require.NoError(t, err)
	require.False(t, caps.IsMatch())
	require.Equal(t, 2, caps.Width())
	require.Equal(t, []string{"Query(foo@bar)", "Query(foo@baz)"}, caps.Labels())
	require.Equal(t, "foo@bar,baz", caps.String())
}
