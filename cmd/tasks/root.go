package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/pkg/task"
)

type cli struct {
	configPath string
	format     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:           "tasks",
		Short:         "Manage the task list from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&c.format, "format", "short", "output format (short, json)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.getCmd(),
		c.doneCmd(),
		c.editCmd(),
		c.rmCmd(),
		c.statusCmd(),
		c.migrateCmd(),
		c.initCmd(),
	)
	return rootCmd
}

func (c *cli) load() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level), nil
}

// withService opens the configured store for the duration of fn.
func (c *cli) withService(ctx context.Context, fn func(svc *task.Service) error) error {
	cfg, logger, err := c.load()
	if err != nil {
		return err
	}
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(task.NewService(store, task.WithLogger(logger)))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
