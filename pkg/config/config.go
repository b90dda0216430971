// pkg/config/config.go
//
// Settings for a recommendation run. Values are layered by viper: flags,
// then WHATBUMP_* environment variables (a local .env is loaded first),
// then .whatbump.yaml, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/git"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "WHATBUMP"
	FileName   = ".whatbump"
	DotEnvFile = ".env"
)

// Keys recognised in config files, environment and flags.
const (
	KeyPath           = "path"
	KeyGitRoot        = "git_root"
	KeyCurrentVersion = "current_version"
	KeyTagPrefix      = "tag_prefix"
	KeyPageSize       = "page_size"
	KeyDelimiter      = "delimiter"
	KeyTypes          = "types"
	KeyOutput         = "output"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

type Config struct {
	Path           string            `json:"path" yaml:"path" validate:"required"`
	GitRoot        string            `json:"git_root,omitempty" yaml:"git_root,omitempty"`
	CurrentVersion string            `json:"current_version,omitempty" yaml:"current_version,omitempty" validate:"omitempty,semver"`
	TagPrefix      string            `json:"tag_prefix" yaml:"tag_prefix"`
	PageSize       int               `json:"page_size" yaml:"page_size" validate:"gte=0"`
	Delimiter      string            `json:"delimiter,omitempty" yaml:"delimiter,omitempty" validate:"omitempty,printascii"`
	Types          map[string]string `json:"types,omitempty" yaml:"types,omitempty" validate:"omitempty,dive,keys,required,endkeys,oneof=patch minor"`
	Output         string            `json:"output" yaml:"output" validate:"oneof=text json yaml"`
	// File is the config file that was read, if any.
	File string `json:"-" yaml:"-"`
}

// LoadOptions says where to look for settings.
type LoadOptions struct {
	// Dir is searched for .env and .whatbump.yaml. Defaults to the
	// working directory.
	Dir string
	// File, when set, is the only config file read and must exist.
	File string
	// SkipHome disables the $HOME config lookup.
	SkipHome bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTagPrefix, bump.DefaultTagPrefix)
	v.SetDefault(KeyPageSize, git.DefaultPageSize)
	v.SetDefault(KeyOutput, OutputText)
}

// Load layers .env, environment and config file settings into v and
// returns the merged Config. Flags must already be bound to v.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, cerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}

	if err := godotenv.Load(filepath.Join(dir, DotEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, bump_err.NewValidationError("failed to read "+DotEnvFile, err)
	}

	SetDefaults(v)
	cli.SetViperEnvPrefix(v, EnvPrefix)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if !opts.SkipHome {
			if home, err := os.UserHomeDir(); err == nil {
				v.AddConfigPath(home)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, bump_err.NewValidationError("failed to read config file", err,
				"check the YAML syntax of "+FileName+".yaml")
		}
	}

	types, err := readTypes(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Path:           v.GetString(KeyPath),
		GitRoot:        v.GetString(KeyGitRoot),
		CurrentVersion: v.GetString(KeyCurrentVersion),
		TagPrefix:      v.GetString(KeyTagPrefix),
		PageSize:       v.GetInt(KeyPageSize),
		Delimiter:      v.GetString(KeyDelimiter),
		Types:          types,
		Output:         strings.ToLower(v.GetString(KeyOutput)),
		File:           v.ConfigFileUsed(),
	}
	if cfg.Path == "" {
		cfg.Path = dir
	}
	return cfg, nil
}

// readTypes accepts a YAML mapping, a key=value flag map or a
// "fix=patch,feat=minor" string from the environment. No entries means nil,
// which selects the default policy.
func readTypes(v *viper.Viper) (map[string]string, error) {
	raw := v.Get(KeyTypes)
	if s, ok := raw.(string); ok {
		return ParseTypes(s)
	}
	types := v.GetStringMapString(KeyTypes)
	if len(types) == 0 {
		return nil, nil
	}
	return types, nil
}

// ParseTypes parses "type=level" pairs separated by commas.
func ParseTypes(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	out := map[string]string{}
	var result error
	for _, pair := range strings.Split(s, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || strings.TrimSpace(k) == "" {
			result = multierror.Append(result, fmt.Errorf("%q is not type=level", pair))
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	if result != nil {
		return nil, bump_err.NewValidationError("invalid "+KeyTypes+" setting", result)
	}
	return out, nil
}

// Validate checks cfg before any git command runs.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return bump_err.NewInternalError("config validation could not run", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	sort.Strings(msgs)

	var result error
	for _, m := range msgs {
		result = multierror.Append(result, errors.New(m))
	}
	return bump_err.NewValidationError("invalid configuration", result,
		"run 'whatbump recommend --help' to see accepted values")
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of [%s]", field, fmt.Sprint(fe.Value()), fe.Param())
	case "gte":
		return fmt.Sprintf("%s: must be >= %s", field, fe.Param())
	case "semver":
		return fmt.Sprintf("%s: %q is not a semantic version (use 1.2.3, without a prefix)", field, fmt.Sprint(fe.Value()))
	case "printascii":
		return fmt.Sprintf("%s: must be printable ASCII on a single line", field)
	case "required":
		return fmt.Sprintf("%s: is required", field)
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

// ToOptions converts cfg into recommendation options.
func (c *Config) ToOptions() bump.Options {
	return bump.Options{
		Path:           c.Path,
		GitRoot:        c.GitRoot,
		CurrentVersion: c.CurrentVersion,
		TagPrefix:      c.TagPrefix,
		Types:          c.Types,
		PageSize:       c.PageSize,
		Delimiter:      c.Delimiter,
	}
}
