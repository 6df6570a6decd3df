package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/library"
)

var statsCmd = &cobra.Command{
	Use:   "stats <library>",
	Short: "Show practice statistics for a course library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.NewOpener(library.Config{}).Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer lib.Close()

		courses, err := lib.(*library.Library).Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("summarize library: %w", err)
		}

		fmt.Printf("%-40s  %9s  %9s  %5s  %5s\n", "Course", "Practiced", "Exercises", "Due", "Mean")
		fmt.Println(strings.Repeat("─", 77))

		for _, c := range courses {
			mean := "-"
			if c.Practiced > 0 {
				mean = fmt.Sprintf("%.2f", c.MeanScore)
			}
			fmt.Printf("%-40s  %9d  %9d  %5d  %5s\n", c.ID, c.Practiced, c.Exercises, c.Due, mean)
		}
		return nil
	},
}
