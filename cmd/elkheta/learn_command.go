package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/matchcache"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

func newLearnCommand(ctx *commandContext) *cobra.Command {
	var itemFlag int64

	cmd := &cobra.Command{
		Use:   "learn <filename> <library-id> <library-name>",
		Short: "Record a manual library selection so similar files match automatically",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := strings.TrimSpace(args[0])
			libraryID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid library id %q", args[1])
			}
			libraryName := strings.TrimSpace(args[2])
			if filename == "" || libraryName == "" {
				return fmt.Errorf("filename and library name cannot be empty")
			}

			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			if err := pipe.matcher.LearnFromManualSelection(filename, libraryID, libraryName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Learned: %s -> %s\n", filename, libraryName)

			if itemFlag > 0 {
				item, err := pipe.store.ItemByID(cmd.Context(), itemFlag)
				if err != nil {
					return err
				}
				item.Status = queue.StatusMatched
				item.NeedsManualSelection = false
				item.LibraryID = libraryID
				item.LibraryName = libraryName
				item.Confidence = matchcache.UserSelectionConfidence
				item.MatchSource = "manual"
				if err := pipe.store.Update(cmd.Context(), item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d marked matched\n", item.ID)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&itemFlag, "item", 0, "Queue item id to resolve with this selection")
	return cmd
}
