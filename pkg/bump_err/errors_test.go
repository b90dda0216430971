package bump_err

import (
	"errors"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: errors.New("boom"), want: 1},
		{name: "validation", err: NewValidationError("bad types", nil), want: 2},
		{name: "git", err: NewGitError("log failed", errors.New("exit 128")), want: 1},
		{name: "internal", err: NewInternalError("unreachable state", nil), want: 3},
		{name: "expected", err: NewExpectedError(errors.New("not a repo")), want: 0},
		{name: "wrapped_validation", err: cerr.Wrap(NewValidationError("bad", nil), "loading config"), want: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassifiedErrorMessage(t *testing.T) {
	t.Parallel()
	cause := errors.New("exit status 128")
	err := NewGitError("git log failed", cause, "run inside a git repository")

	require.ErrorIs(t, err, cause)
	assert.True(t, IsCategory(err, CategoryGit))
	assert.False(t, IsCategory(err, CategoryValidation))
	assert.Contains(t, err.Error(), "git log failed: exit status 128")
	assert.Contains(t, err.Error(), "1. run inside a git repository")
}

func TestExpectedError(t *testing.T) {
	t.Parallel()
	assert.Nil(t, NewExpectedError(nil))

	base := errors.New("no commits")
	err := NewExpectedError(base)
	assert.True(t, IsExpectedUserError(err))
	assert.True(t, IsExpectedUserError(cerr.Wrap(err, "recommend")))
	assert.False(t, IsExpectedUserError(base))
	assert.Equal(t, "no commits", err.Error())
}
