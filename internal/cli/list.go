package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listFolders  bool
	listRoutines bool
	listFolderID int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List routine folders and routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		showFolders := listFolders || !listRoutines
		showRoutines := listRoutines || !listFolders

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer tw.Flush()

		if showFolders {
			folders, err := client.Folders(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing folders: %w", err)
			}
			fmt.Fprintln(tw, "FOLDER ID\tTITLE\tUPDATED")
			for _, f := range folders {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Title, f.UpdatedAt)
			}
			if showRoutines {
				fmt.Fprintln(tw)
			}
		}

		if showRoutines {
			routines, err := client.Routines(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing routines: %w", err)
			}
			fmt.Fprintln(tw, "ROUTINE ID\tTITLE\tFOLDER\tEXERCISES")
			for _, r := range routines {
				if listFolderID != 0 && (r.FolderID == nil || *r.FolderID != listFolderID) {
					continue
				}
				folder := "-"
				if r.FolderID != nil {
					folder = fmt.Sprint(*r.FolderID)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Title, folder, len(r.Exercises))
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listFolders, "folders", false, "list folders only")
	listCmd.Flags().BoolVar(&listRoutines, "routines", false, "list routines only")
	listCmd.Flags().IntVar(&listFolderID, "folder-id", 0, "only routines in this folder")
}
