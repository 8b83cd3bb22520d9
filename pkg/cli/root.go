// Package cli implements the tracedapp command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo carries build-time version information set via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var buildInfo = BuildInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"}

var rootCmd = &cobra.Command{
	Use:   "tracedapp",
	Short: "HTTP service that simulates realistic request behavior",
	Long: `tracedapp serves a small fixed set of endpoints with randomized latency,
probabilistic failures, and fixed sample payloads, so an observability
pipeline attached to the process has meaningful traffic to capture.

Running tracedapp with no arguments starts the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default action is to serve.
		return runServe(cmd)
	},
}

func init() {
	registerServeFlags(rootCmd)
	initServeCmd()
	initVersionCmd()
}

// Execute runs the CLI with the given build information.
func Execute(info BuildInfo) error {
	if info.Version != "" {
		buildInfo = info
	}
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tracedapp %s (commit %s, built %s)\n",
			buildInfo.Version, buildInfo.Commit, buildInfo.BuildDate)
	},
}

func initVersionCmd() {
	rootCmd.AddCommand(versionCmd)
}
