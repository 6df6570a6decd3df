package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/render"
)

// version and commit are set via -ldflags at build time.
var (
	version = "(devel)"
	commit  = ""
)

func buildInfo() render.BuildInfo {
	return render.BuildInfo{Version: version, Commit: commit}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		if commit != "" {
			fmt.Println("trane", version, commit)
			return
		}
		fmt.Println("trane", version)
	},
}
