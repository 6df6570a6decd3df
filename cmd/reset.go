package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <library>",
	Short: "Delete the practice history of a course library",
	Long: `Delete the scores, blacklist, and review list stored for a course library.
Course manifests and saved filters are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete practice history without --yes")
		}

		dbPath, err := store.DefaultDBPath(args[0])
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		removed := false
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			err := os.Remove(p)
			switch {
			case err == nil:
				removed = true
			case !errors.Is(err, os.ErrNotExist):
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}

		if !removed {
			fmt.Println("No practice history found.")
			return nil
		}
		fmt.Println("Deleted practice history at", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
