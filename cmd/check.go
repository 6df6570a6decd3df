package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/library"
)

var checkCmd = &cobra.Command{
	Use:   "check <library>",
	Short: "Validate a course library and list its courses",
	Long: `Validate every manifest of a course library against its schema, check the
dependency graph for missing units and cycles, and list the courses found.

The library's practice database is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opener := library.NewOpener(library.Config{DBPath: "file::memory:"})
		lib, err := opener.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer lib.Close()

		courses, err := lib.(*library.Library).Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("summarize library: %w", err)
		}

		// Header.
		fmt.Printf("%-40s  %-30s  %7s  %9s\n", "ID", "Name", "Lessons", "Exercises")
		fmt.Println(strings.Repeat("─", 92))

		exercises := 0
		for _, c := range courses {
			name := c.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-40s  %-30s  %7d  %9d\n", c.ID, name, c.Lessons, c.Exercises)
			exercises += c.Exercises
		}

		fmt.Printf("\n%d courses, %d exercises\n", len(courses), exercises)
		return nil
	},
}
