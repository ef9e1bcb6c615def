// Command exectrlctl is a small demo driver for the exectrl kernel: mount a
// scope and run a task, broadcast on a channel, or print authority status.
package main

import (
	"fmt"
	"os"

	"github.com/kaelbrook/exectrl/internal/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
