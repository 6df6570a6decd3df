package main

import (
	"os"

	"github.com/trane-project/trane-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
