package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default schemacov.yaml configuration file",
		Long: `Create a schemacov.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually.

Keys written:
  version                config file format version
  output                 directory for coverage maps
  paths.include          glob patterns of schema files to map
  paths.exclude          glob patterns to skip
  run.parallel           schema files mapped concurrently
  run.debounce           quiet period before a watch rebuild
  schema.assert_format   treat format as an assertion (statement + branch)
  schema.dialect         dialect for schemas without $schema
  log.filename, log.level, log.verbose, log.max_size, log.max_backups,
  log.max_age, log.compress`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
