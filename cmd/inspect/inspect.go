// cmd/inspect/inspect.go

package inspect

import (
	"github.com/spf13/cobra"
)

// NewInspectCmd returns `whatbump inspect`, the parent of read-only
// repository queries.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Inspect the repository whatbump would read",
		Aliases: []string{"show"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewRepoCmd())
	return cmd
}
