// Command shopfront is the storefront engine CLI: scripted demo runs,
// the development backend, scenario validation, and journal tooling.
package main

import (
	"fmt"
	"os"

	"github.com/SniraJavas/EcommerceWebApp/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
