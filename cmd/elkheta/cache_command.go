package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Match cache operations",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-tier cache entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			stats := pipe.cache.Stats()
			rows := [][]string{
				{"User selections", strconv.Itoa(stats.User)},
				{"Learned mappings", strconv.Itoa(stats.Learned)},
				{"Conflict entries", strconv.Itoa(stats.Conflict)},
				{"Pattern entries", strconv.Itoa(stats.Pattern)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tier", "Entries"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear every cache tier including the persisted learning store",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			if err := pipe.cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
}
