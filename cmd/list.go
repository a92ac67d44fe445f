package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schemacov.dev/pkg/schemacov/internal/domain"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored coverage maps",
		Long:  "List the coverage maps stored in the output directory with their statement, function and branch totals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				Output: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
