package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Upload queue operations",
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upload queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if trimmed := strings.TrimSpace(statusFlag); trimmed != "" {
				for _, raw := range strings.Split(trimmed, ",") {
					status, err := queue.ParseStatus(raw)
					if err != nil {
						return err
					}
					statuses = append(statuses, status)
				}
			}

			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Filename,
					statusCell(item.Status, colorize),
					item.LibraryName,
					confidenceCell(item),
					item.CollectionName,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Filename", "Status", "Library", "Confidence", "Collection"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (comma separated)")
	return cmd
}

func statusCell(status queue.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch status {
	case queue.StatusMatched, queue.StatusCompleted:
		return ansiGreen + label + ansiReset
	case queue.StatusNeedsSelection, queue.StatusPending, queue.StatusUploading:
		return ansiYellow + label + ansiReset
	case queue.StatusFailed:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

func confidenceCell(item *queue.Item) string {
	if item.LibraryName == "" {
		return "-"
	}
	return strconv.Itoa(item.Confidence)
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one queue item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.ItemByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"ID", strconv.FormatInt(item.ID, 10)},
				{"Upload GUID", item.UploadGUID},
				{"Filename", item.Filename},
				{"Source path", item.SourcePath},
				{"Status", string(item.Status)},
				{"Academic year", orDash(item.AcademicYear)},
				{"Library", orDash(item.LibraryName)},
				{"Confidence", confidenceCell(item)},
				{"Match source", orDash(item.MatchSource)},
				{"Collection", orDash(item.CollectionName)},
				{"Collection reason", orDash(item.CollectionReason)},
				{"Needs manual selection", yesNo(item.NeedsManualSelection)},
				{"Error", orDash(item.ErrorMessage)},
				{"Created", item.CreatedAt.Local().Format("2006-01-02 15:04:05")},
				{"Updated", item.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))

			if suggestions := item.Suggestions(); len(suggestions) > 0 {
				suggestionRows := make([][]string, 0, len(suggestions))
				for _, s := range suggestions {
					suggestionRows = append(suggestionRows, []string{
						strconv.FormatInt(s.LibraryID, 10),
						s.LibraryName,
						strconv.Itoa(s.Score),
					})
				}
				fmt.Fprintln(out, "Suggestions:")
				fmt.Fprintln(out, renderTable([]string{"Library ID", "Name", "Score"}, suggestionRows,
					[]columnAlignment{alignRight, alignLeft, alignRight}))
			}
			return nil
		},
	}
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show queue item counts per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			health, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Pending", strconv.Itoa(health.Pending)},
				{"Matched", strconv.Itoa(health.Matched)},
				{"Needs selection", strconv.Itoa(health.NeedsSelection)},
				{"Uploading", strconv.Itoa(health.Uploading)},
				{"Completed", strconv.Itoa(health.Completed)},
				{"Failed", strconv.Itoa(health.Failed)},
				{"Total", strconv.Itoa(health.Total)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Status", "Count"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove completed items from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed item(s)\n", removed)
			return nil
		},
	}
}
