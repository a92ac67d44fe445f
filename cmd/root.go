// Package cmd provides the root command and CLI setup for schemacov.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"schemacov.dev/pkg/schemacov/internal/adapter"
	"schemacov.dev/pkg/schemacov/internal/controller"
	"schemacov.dev/pkg/schemacov/internal/domain"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var mapStore adapter.MapStore
var workflow domain.Workflow
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that read/write coverage maps.
var outputDirFlag string

// includePatterns and excludePatterns filter the schema files picked up by directory scans.
var includePatterns []string
var excludePatterns []string

var assertFormatFlag bool
var dialectFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	mapStore = adapter.NewMapStore(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, mapStore, ui)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...              recursively scan current directory
  - ./schemas/...      recursively scan schemas directory
  - ./a.schema.json    a single schema file, regardless of --include`

const rootLongDescription = `Schemacov builds istanbul-compatible coverage maps for JSON Schema
documents, so a test suite can report which keywords its instances
actually exercised.

` + pathPatternsHelp

const buildLongDescription = `Build coverage maps for the given paths (default: current directory).

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemacov",
		Short: "JSON Schema coverage map tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for coverage maps",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&includePatterns, includeFlagName, "i", viper.GetStringSlice(includeConfigKey), "include files whose name matches glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(includeFlagName), includeConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&assertFormatFlag, assertFormatFlagName, viper.GetBool(assertFormatConfigKey), "treat \"format\" as an assertion with pass/fail branches")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(assertFormatFlagName), assertFormatConfigKey)

	cmd.PersistentFlags().StringVar(&dialectFlag, dialectFlagName, viper.GetString(dialectConfigKey), "dialect for schemas without $schema")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dialectFlagName), dialectConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
