// pkg/cli/cli.go
//
// Flag helpers shared by whatbump commands. Flags are declared on cobra
// commands and bound into a viper instance, so a flag, a WHATBUMP_* variable
// and a config file key all land on the same setting.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigKeyAnnotation overrides the viper key a flag binds to. Without it
// the key is the flag name with dashes replaced by underscores.
const ConfigKeyAnnotation = "whatbump_config_key"

// AddStringFlag adds a string flag and optionally marks as required.
// Env/Config are handled by Viper if you call BindFlagsToViper.
func AddStringFlag(cmd *cobra.Command, name, shorthand, def, help string, required bool) {
	cmd.Flags().StringP(name, shorthand, def, help)
	if required {
		if err := cmd.MarkFlagRequired(name); err != nil {
			// Cobra will still validate required flags at runtime
			fmt.Fprintf(os.Stderr, "warning: failed to mark flag %s as required: %v\n", name, err)
		}
	}
}

// AddIntFlag adds an int flag.
func AddIntFlag(cmd *cobra.Command, name, shorthand string, def int, help string) {
	cmd.Flags().IntP(name, shorthand, def, help)
}

// AddStringToStringFlag adds a repeatable key=value flag bound to configKey.
func AddStringToStringFlag(cmd *cobra.Command, name, configKey string, help string) {
	cmd.Flags().StringToString(name, nil, help)
	SetConfigKey(cmd.Flags(), name, configKey)
}

// SetConfigKey records the viper key for an already declared flag.
func SetConfigKey(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, ConfigKeyAnnotation, []string{key}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to annotate flag %s: %v\n", name, err)
	}
}

// ConfigKey returns the viper key flag f binds to.
func ConfigKey(f *pflag.Flag) string {
	if keys := f.Annotations[ConfigKeyAnnotation]; len(keys) > 0 && keys[0] != "" {
		return keys[0]
	}
	return strings.ReplaceAll(f.Name, "-", "_")
}

// BindFlagsToViper binds all flags on a command to a Viper instance.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(ConfigKey(f), f); err != nil {
			result = multierror.Append(result, fmt.Errorf("bind --%s: %w", f.Name, err))
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read PREFIX_KEY environment variables.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}
