// Command airmod is the entry point for the fleet modernity pipeline, the
// single-airline predictor, and the HTTP scoring server.
package main

import (
	"os"

	"github.com/airnalytics/air-modernity/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	os.Exit(cli.Execute())
}
