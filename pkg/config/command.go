package config

import (
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names shared by commands that read configuration.
const (
	FlagConfig = "config"
	FlagPath   = "path"
)

// FromCommand loads settings for cmd. Its flags win over environment and
// config files. --path picks the directory searched for .env and
// .whatbump.yaml, and --config names an explicit file.
func FromCommand(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	if err := cli.BindFlagsToViper(cmd, v); err != nil {
		return nil, bump_err.NewInternalError("failed to bind flags", err)
	}

	var opts LoadOptions
	if f := cmd.Flags().Lookup(FlagPath); f != nil {
		opts.Dir = f.Value.String()
	}
	if f := cmd.Flags().Lookup(FlagConfig); f != nil {
		opts.File = f.Value.String()
	}
	return Load(v, opts)
}
