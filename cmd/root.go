package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "trane",
	Short: "Interactive shell for the Trane practice system",
	Long: `Trane is an automated practice system for learning complex skills.

Running trane without a subcommand starts an interactive shell. Type help at
the prompt to list the available commands.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (overrides TRANE_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Write debug logs to this file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, or error")

	rootCmd.Flags().String("library", "", "Open the course library at this path on startup")
	rootCmd.Flags().String("history", "", "Path to the line history file")
	rootCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig loads the config file named by --config (highest priority),
// then TRANE_CONFIG, then the default XDG path, and applies flag overrides.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if f := cmd.Flags().Lookup("library"); f != nil && f.Value.String() != "" {
		cfg.Library = f.Value.String()
	}
	if f := cmd.Flags().Lookup("history"); f != nil && f.Value.String() != "" {
		cfg.HistoryFile = f.Value.String()
	}
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		cfg.Color = false
		cfg.Markdown = config.MarkdownPlain
	}
	return cfg, cfg.Validate()
}
