// Command cvefocus browses CVE records served by a CVE HTTP API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/cvefocus/internal/cli"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/pkg/version"
)

// Process exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitNotFound = 2
	exitUpstream = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps an error to the process exit status. Fetch and parse
// failures take precedence over not-found when both are present.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, source.ErrFetch), errors.Is(err, source.ErrParse):
		return exitUpstream
	case source.IsNotFound(err):
		return exitNotFound
	default:
		return exitError
	}
}
