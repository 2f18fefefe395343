package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var yearFlag string

	cmd := &cobra.Command{
		Use:   "parse <filename>",
		Short: "Parse a filename and show the extracted metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			parser, err := parsing.NewParser(cfg)
			if err != nil {
				return err
			}

			year := strings.TrimSpace(yearFlag)
			if year == "" {
				year = cfg.Academic.DefaultYear
			}
			parsed := parser.Parse(args[0], year)

			rows := [][]string{
				{"Academic year", parsed.AcademicYear},
				{"Track", trackLabel(parsed.TrackType)},
				{"Branch", orDash(parsed.Branch)},
				{"Secondary branch", orDash(parsed.SecondaryBranch)},
				{"Branch conflict", yesNo(parsed.HasBranchConflict)},
				{"Teacher code", orDash(parsed.TeacherCode)},
				{"Teacher name", orDash(parsed.TeacherName)},
				{"Term", orDash(parsed.Term)},
				{"Unit", orDash(parsed.Unit)},
				{"Lesson", orDash(parsed.Lesson)},
				{"Class", orDash(parsed.ClassNum)},
				{"Content type", parsed.ContentType.String()},
				{"Secondary text", orDash(parsed.SecondaryLanguageText)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&yearFlag, "year", "", "Reference academic year (defaults to the configured default_year)")
	return cmd
}

func trackLabel(track parsing.Track) string {
	switch track {
	case parsing.TrackA:
		return "A"
	case parsing.TrackB:
		return "B"
	default:
		return "-"
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
