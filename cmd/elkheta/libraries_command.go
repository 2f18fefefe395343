package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "List the destination libraries on the video host",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			libraries, err := pipe.client.Libraries(cmd.Context())
			if err != nil {
				return err
			}
			if len(libraries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No libraries visible to the configured access key")
				return nil
			}

			rows := make([][]string, 0, len(libraries))
			for _, lib := range libraries {
				rows = append(rows, []string{strconv.FormatInt(lib.ID, 10), lib.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name"}, rows,
				[]columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
	return cmd
}
