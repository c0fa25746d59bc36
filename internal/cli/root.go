// Package cli wires the hevyplan commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/config"
)

var (
	// configPath is the YAML config file given with --config. Empty means
	// defaults plus environment.
	configPath string
	verbose    bool

	// version is set by Execute from the build.
	version = "dev"

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hevyplan",
	Short: "Turn workout program documents into Hevy routines",
	Long: `hevyplan validates a JSON workout program against the Hevy exercise
catalog and creates one routine per day, grouped in a folder.

Run "hevyplan fetch" once to download the exercise catalog, then
"hevyplan validate -i program.json" and "hevyplan create -i program.json".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(fetchCmd, validateCmd, createCmd, listCmd, deleteCmd,
		searchCmd, exportCmd, mcpCmd, serveCmd, versionCmd)
}

// Execute runs the root command. It returns the error of the failed command
// so main can choose the exit code.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "hevyplan", version)
	},
}
