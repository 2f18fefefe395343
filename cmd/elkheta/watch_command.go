package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/watcher"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var intervalFlag int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the ingest directory and process new files continuously",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer pipe.Close()

			if !pipe.cfg.Watcher.Enabled {
				return fmt.Errorf("watcher is disabled; set watcher.enabled = true in %s", "config.toml")
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ingest, err := watcher.New(pipe.cfg, pipe.store, pipe.notifier, pipe.logger)
			if err != nil {
				return err
			}
			processor := workflow.NewProcessor(pipe.matcher, pipe.store, pipe.client, pipe.notifier, pipe.logger)

			watchErr := make(chan error, 1)
			go func() { watchErr <- ingest.Run(runCtx) }()

			interval := time.Duration(intervalFlag) * time.Second
			if interval <= 0 {
				interval = 30 * time.Second
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (processing every %s)\n", pipe.cfg.Paths.WatchDir, interval)
			for {
				select {
				case <-runCtx.Done():
					<-watchErr
					return context.Canceled
				case err := <-watchErr:
					if err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				case <-ticker.C:
					if _, err := processor.ProcessPending(runCtx); err != nil && !errors.Is(err, context.Canceled) {
						pipe.logger.Error("processing pass failed", logging.Error(err))
					}
				}
			}
		},
	}

	cmd.Flags().IntVar(&intervalFlag, "interval", 30, "Seconds between processing passes")
	return cmd
}
