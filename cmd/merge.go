package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schemacov.dev/pkg/schemacov/internal/domain"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <dirs...>",
		Short: "Merge recorded hit counts into a single coverage file",
		Long: `Merge the coverage JSON files found in each directory with the stored
coverage maps, and write coverage-final.json to the output directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs: parsePaths(args),
				Output: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
