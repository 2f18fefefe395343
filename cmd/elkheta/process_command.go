package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Match every pending queue item against the library directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			processor := workflow.NewProcessor(pipe.matcher, pipe.store, pipe.client, pipe.notifier, pipe.logger)
			result, err := processor.ProcessPending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d item(s), %d failed in %s\n",
				result.Processed, result.Failed, result.Duration.Round(time.Millisecond))
			return nil
		},
	}
}
