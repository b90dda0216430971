// pkg/bump/policy.go

package bump

import (
	"fmt"
	"sort"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/hashicorp/go-multierror"
)

// TypeKey identifies a tally bucket: either a configured commit type or the
// catch-all for absent, unparsable and unconfigured types. The zero value
// is the unknown key, and no configured type can produce it.
type TypeKey struct {
	name    string
	unknown bool
}

// UnknownType is the catch-all bucket key.
var UnknownType = TypeKey{unknown: true}

// NamedType returns the key for a configured commit type token.
func NamedType(name string) TypeKey {
	return TypeKey{name: name}
}

// Name returns the type token, or "" for the unknown key.
func (k TypeKey) Name() string { return k.name }

// Unknown reports whether k is the catch-all key.
func (k TypeKey) Unknown() bool { return k.unknown }

func (k TypeKey) String() string {
	if k.unknown {
		return "<unknown>"
	}
	return k.name
}

// DefaultTypes is the policy used when no types are configured.
func DefaultTypes() map[string]string {
	return map[string]string{
		"fix":  "patch",
		"feat": "minor",
	}
}

// TypePolicy maps commit types to the level they trigger. Major is never
// reachable through a type; only breaking changes escalate to major.
type TypePolicy struct {
	levels map[string]Level
}

// NewTypePolicy validates types eagerly. A nil map selects DefaultTypes.
// Every key whose value is not "patch" or "minor" is reported.
func NewTypePolicy(types map[string]string) (*TypePolicy, error) {
	if types == nil {
		types = DefaultTypes()
	}

	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := &TypePolicy{levels: make(map[string]Level, len(types))}
	var result error
	for _, k := range keys {
		var level Level
		if err := level.UnmarshalText([]byte(types[k])); err != nil || level == Major {
			result = multierror.Append(result,
				fmt.Errorf("type %q: bump must be either patch or minor, got %q", k, types[k]))
			continue
		}
		p.levels[k] = level
	}
	if result != nil {
		return nil, bump_err.NewValidationError("invalid commit type configuration", result,
			"map every type to either patch or minor, e.g. --type fix=patch --type feat=minor")
	}
	return p, nil
}

// Lookup resolves a classified type to its bucket key and level. Absent and
// unconfigured types fall into UnknownType at Patch.
func (p *TypePolicy) Lookup(commitType string) (TypeKey, Level) {
	if commitType != "" {
		if level, ok := p.levels[commitType]; ok {
			return NamedType(commitType), level
		}
	}
	return UnknownType, Patch
}

// Types returns the configured type tokens in sorted order.
func (p *TypePolicy) Types() []string {
	out := make([]string, 0, len(p.levels))
	for k := range p.levels {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TypeBucket collects the commits filed under one TypeKey. Adding the same
// hash twice is a no-op.
type TypeBucket struct {
	Bump   Level
	hashes map[string]struct{}
	order  []string
}

func newTypeBucket(level Level) *TypeBucket {
	return &TypeBucket{Bump: level, hashes: make(map[string]struct{})}
}

// Add records hash once.
func (b *TypeBucket) Add(hash string) {
	if b.Has(hash) {
		return
	}
	b.hashes[hash] = struct{}{}
	b.order = append(b.order, hash)
}

// Has reports membership.
func (b *TypeBucket) Has(hash string) bool {
	_, ok := b.hashes[hash]
	return ok
}

// Hashes returns members in insertion order.
func (b *TypeBucket) Hashes() []string {
	return append([]string{}, b.order...)
}

// Len is the number of distinct commits in the bucket.
func (b *TypeBucket) Len() int { return len(b.order) }
