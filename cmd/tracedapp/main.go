// tracedapp - HTTP service that simulates realistic request behavior for
// observability pipelines.
package main

import (
	"fmt"
	"os"

	"github.com/tracedapp/tracedapp/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	err := cli.Execute(cli.BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
