package main

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/movielist/internal/config"
)

// commandContext loads configuration and the logger once per invocation.
type commandContext struct {
	logLevelFlag *string

	once sync.Once
	cfg  config.Config
	log  *logrus.Logger
}

func (c *commandContext) load() (config.Config, *logrus.Logger) {
	c.once.Do(func() {
		c.cfg = config.Load()
		level := c.cfg.LogLevel
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		c.log = newLogger(c.cfg, level)
	})
	return c.cfg, c.log
}

// newLogger builds the process logger: JSON in prod, text elsewhere.  An
// unknown level name falls back to info.
func newLogger(cfg config.Config, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newRootCommand() *cobra.Command {
	var logLevel string
	ctx := &commandContext{logLevelFlag: &logLevel}

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Personal movie list web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newActivityLogCommand(ctx))
	return rootCmd
}
