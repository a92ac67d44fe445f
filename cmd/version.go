package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the schemacov build version and the Go version used to build it.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(versionString(debug.ReadBuildInfo()))
		},
	}
}

func versionString(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil || info.Main.Version == "" {
		return "schemacov version unknown"
	}

	return "schemacov " + info.Main.Version + " (" + info.GoVersion + ")"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
