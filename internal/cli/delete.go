package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/upload"
)

var (
	deleteRoutines []string
	deleteFolder   int
	deleteYes      bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete routines and/or a routine folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(deleteRoutines) == 0 && deleteFolder == 0 {
			return errors.New("nothing to delete: give --routine or --folder")
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		if !deleteYes {
			what := fmt.Sprintf("%d routine(s)", len(deleteRoutines))
			if deleteFolder != 0 {
				what += fmt.Sprintf(" and folder %d", deleteFolder)
			}
			if !confirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "Delete "+what+"?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		var state *upload.StateDB
		if s, err := upload.OpenStateDB(cfg.Submit.StateDir); err != nil {
			log.Warn("state database unavailable; ledger not updated", "error", err)
		} else {
			state = s
			defer state.Close()
		}

		for _, id := range deleteRoutines {
			if err := client.DeleteRoutine(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting routine %s: %w", id, err)
			}
			if state != nil {
				if err := state.Forget(id); err != nil {
					log.Warn("failed to forget routine", "routine_id", id, "error", err)
				}
			}
			log.Info("routine deleted", "routine_id", id)
		}
		if deleteFolder != 0 {
			if err := client.DeleteFolder(cmd.Context(), deleteFolder); err != nil {
				return fmt.Errorf("deleting folder %d: %w", deleteFolder, err)
			}
			log.Info("folder deleted", "folder_id", deleteFolder)
		}
		return nil
	},
}

// confirm asks a yes/no question; anything but y or yes is no. Callers
// asking several questions share one reader.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	line, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	deleteCmd.Flags().StringSliceVar(&deleteRoutines, "routine", nil, "routine id to delete (repeatable)")
	deleteCmd.Flags().IntVar(&deleteFolder, "folder", 0, "folder id to delete")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
