package bump

import (
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTypePolicy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := NewTypePolicy(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"feat", "fix"}, p.Types())

		key, level := p.Lookup("feat")
		assert.Equal(t, NamedType("feat"), key)
		assert.Equal(t, Minor, level)

		key, level = p.Lookup("fix")
		assert.Equal(t, NamedType("fix"), key)
		assert.Equal(t, Patch, level)
	})

	t.Run("custom patch and minor only", func(t *testing.T) {
		p, err := NewTypePolicy(map[string]string{"perf": "minor", "docs": "patch"})
		require.NoError(t, err)

		key, _ := p.Lookup("feat")
		assert.Equal(t, UnknownType, key, "defaults are replaced, not merged")
		_, level := p.Lookup("perf")
		assert.Equal(t, Minor, level)
	})

	t.Run("empty map has no named types", func(t *testing.T) {
		p, err := NewTypePolicy(map[string]string{})
		require.NoError(t, err)
		assert.Empty(t, p.Types())
	})

	t.Run("invalid values are all reported", func(t *testing.T) {
		_, err := NewTypePolicy(map[string]string{
			"feat":     "minor",
			"breaking": "major",
			"chore":    "none",
			"perf":     "Minor",
		})
		require.Error(t, err)
		assert.True(t, bump_err.IsCategory(err, bump_err.CategoryValidation))
		assert.Equal(t, 2, bump_err.GetExitCode(err))
		assert.Contains(t, err.Error(), `"breaking"`)
		assert.Contains(t, err.Error(), `"chore"`)
		assert.Contains(t, err.Error(), `"perf"`, "levels are matched exactly")
		assert.NotContains(t, err.Error(), `"feat"`)
	})
}

func TestUnknownTypeCannotCollide(t *testing.T) {
	p, err := NewTypePolicy(map[string]string{"": "minor", "<unknown>": "minor"})
	require.NoError(t, err)

	key, level := p.Lookup("")
	assert.Equal(t, UnknownType, key, "an absent type is never a named type")
	assert.Equal(t, Patch, level)

	key, _ = p.Lookup("<unknown>")
	assert.False(t, key.Unknown())
	assert.NotEqual(t, UnknownType, key)
	assert.NotEqual(t, UnknownType, NamedType(""))
}

func TestTypeBucketIsASet(t *testing.T) {
	b := newTypeBucket(Minor)
	b.Add("aaa")
	b.Add("bbb")
	b.Add("aaa")

	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Has("bbb"))
	assert.False(t, b.Has("ccc"))
	assert.Equal(t, []string{"aaa", "bbb"}, b.Hashes())
	assert.Equal(t, []string{}, newTypeBucket(Patch).Hashes())
}
