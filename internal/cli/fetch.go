package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/catalog"
)

var (
	fetchForce  bool
	fetchOutput string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the exercise template catalog",
	Long: `Download every exercise template from the Hevy API and save a local
snapshot. The download is skipped while the snapshot is younger than
catalog.max_age_days unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Catalog.Path
		if fetchOutput != "" {
			path = fetchOutput
		}

		now := time.Now()
		if !fetchForce && !catalog.NeedsRefresh(path, cfg.Catalog.MaxAge(), now) {
			age, _ := catalog.Age(path, now)
			log.Info("catalog is fresh; skipping download", "path", path, "age", age.Round(time.Hour).String())
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		templates, err := client.ExerciseTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching exercise templates: %w", err)
		}
		if err := catalog.Save(path, templates, now); err != nil {
			return err
		}

		log.Info("catalog saved", "path", path, "exercises", len(templates))
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d exercise templates to %s\n", len(templates), path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "download even if the snapshot is fresh")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "snapshot path (default catalog.path)")
}
