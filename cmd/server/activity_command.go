package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movielist/internal/queue"
)

func newActivityLogCommand(ctx *commandContext) *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "activity-log",
		Short: "Consume movie activity events and append them to a log file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := ctx.load()
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is required")
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer := &queue.ActivityConsumer{URL: cfg.AMQPURL, LogPath: logPath, Log: log}
			log.WithField("path", logPath).Info("activity consumer started")
			err := consumer.Run(runCtx)
			if runCtx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&logPath, "file", "logs/activity.log", "Activity log file")
	return cmd
}
