package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/collection"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/matching"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "match <filename>",
		Short: "Score a filename against the video host libraries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			libraries, err := pipe.client.Libraries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list libraries: %w", err)
			}

			parsed := pipe.parser.Parse(args[0], pipe.cfg.Academic.DefaultYear)
			weights := matching.DefaultWeights()
			match, err := matching.FindMatchingLibrary(parsed, libraries, pipe.parser.Grammar(), weights)
			if err != nil {
				return err
			}
			decision := matching.Decide(parsed, match, pipe.parser.Grammar(), weights)

			out := cmd.OutOrStdout()
			if match.Best != nil {
				fmt.Fprintf(out, "Best match: %s (confidence %d)\n", match.Best.Name, match.Confidence)
			} else {
				fmt.Fprintln(out, "Best match: none (all candidates rejected)")
			}
			fmt.Fprintf(out, "Auto-apply: %s", yesNo(decision.AutoApply))
			if decision.Reason != "" {
				fmt.Fprintf(out, " (%s)", decision.Reason)
			}
			fmt.Fprintln(out)

			route := collection.Determine(parsed, pipe.cfg.Academic.DefaultYear)
			fmt.Fprintf(out, "Collection: %s\n", route.Name)

			rows := make([][]string, 0, len(match.Alternatives))
			for _, alt := range match.Alternatives {
				row := []string{alt.Library.Name, strconv.Itoa(alt.Score)}
				if explain {
					row = append(row, breakdownSummary(alt.Breakdown))
				}
				rows = append(rows, row)
			}
			headers := []string{"Library", "Score"}
			aligns := []columnAlignment{alignLeft, alignRight}
			if explain {
				headers = append(headers, "Breakdown")
				aligns = append(aligns, alignLeft)
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show the per-rule score breakdown")
	return cmd
}

func breakdownSummary(breakdown matching.Breakdown) string {
	summary := ""
	for i, contribution := range breakdown.Contributions {
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%s %+d", contribution.Rule, contribution.Points)
	}
	if summary == "" {
		summary = "-"
	}
	return summary
}
