package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the local exercise catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMatcher()
		if err != nil {
			return err
		}
		if !m.CatalogAvailable() {
			return errors.New("no exercise catalog; run hevyplan fetch")
		}

		results := m.Catalog().Search(strings.Join(args, " "), searchLimit)
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching exercises.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintln(tw, "ID\tTITLE\tMUSCLE GROUP\tEQUIPMENT")
		for _, t := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.PrimaryMuscleGroup, t.Equipment)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum results (0 for all)")
}
