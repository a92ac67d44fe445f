package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schemacov.dev/pkg/schemacov/internal/domain"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

var runParallelFlag int
var watchFlag bool

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Build coverage maps for schema files",
		Long:  buildLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildArgs, err := buildArgsFromConfig(args)
			if err != nil {
				return err
			}

			if !watchFlag {
				return workflow.Build(cmd.Context(), buildArgs)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Watch(ctx, domain.WatchArgs{
				BuildArgs: buildArgs,
				Debounce:  viper.GetDuration(watchDebounceKey),
			})
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of schemas built in parallel (0 uses all CPUs)")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().Duration(debounceFlagName, viper.GetDuration(watchDebounceKey), "quiet period before a watch rebuild")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), watchDebounceKey)

	cmd.Flags().BoolVarP(&watchFlag, watchFlagName, "w", false, "rebuild coverage maps when schema files change")
}

func buildArgsFromConfig(args []string) (domain.BuildArgs, error) {
	dialect, err := resolveDialect(viper.GetString(dialectConfigKey))
	if err != nil {
		return domain.BuildArgs{}, err
	}

	return domain.BuildArgs{
		Paths:          parsePaths(args),
		Include:        viper.GetStringSlice(includeConfigKey),
		Exclude:        viper.GetStringSlice(excludeConfigKey),
		Output:         m.Path(viper.GetString(outputFlagName)),
		Parallel:       viper.GetInt(runParallelConfigKey),
		AssertFormat:   viper.GetBool(assertFormatConfigKey),
		DefaultDialect: dialect,
	}, nil
}
