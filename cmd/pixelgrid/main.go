// Command pixelgrid edits and serves grid dashboards.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/pixelgrid/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "pixelgrid:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
