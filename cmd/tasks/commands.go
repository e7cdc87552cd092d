package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/pkg/task"
)

func (c *cli) addCmd() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prio *int
			if priority != "" {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				n := int(p)
				prio = &n
			}
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				t, err := svc.Add(cmd.Context(), strings.Join(args, " "), prio)
				if err != nil {
					return err
				}
				return c.printTask(cmd.OutOrStdout(), t)
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: low, medium, high or 0-2 (default medium)")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, pending first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				tasks, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				return c.printTasks(cmd.OutOrStdout(), tasks)
			})
		},
	}
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				t, err := svc.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.printTask(cmd.OutOrStdout(), t)
			})
		},
	}
}

func (c *cli) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				ok, err := svc.Complete(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("task %d: %w", id, task.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "completed %d\n", id)
				return nil
			})
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var text, priority string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var textPtr *string
			if cmd.Flags().Changed("text") {
				textPtr = &text
			}
			var prio *int
			if cmd.Flags().Changed("priority") {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				n := int(p)
				prio = &n
			}
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				t, err := svc.Edit(cmd.Context(), id, textPtr, prio)
				if err != nil {
					return err
				}
				return c.printTask(cmd.OutOrStdout(), t)
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "new text (blank leaves it unchanged)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				if err := svc.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", id)
				return nil
			})
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *task.Service) error {
				st, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if c.format == "json" {
					return printJSON(cmd.OutOrStdout(), st)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "total: %d\npending: %d\ncompleted: %d\n", st.Total, st.Pending, st.Completed)
				return nil
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import a legacy JSON task file into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := c.load()
			if err != nil {
				return err
			}
			if from == "" {
				from = cfg.Migration.LegacyPath
			}
			// Open without the automatic import so the stats can be reported here.
			cfg.Migration.LegacyPath = ""
			store, err := app.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := task.Migrate(cmd.Context(), store, from)
			if err != nil {
				return err
			}
			app.LogMigration(logger, from, stats)
			if c.format == "json" {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			if !stats.Ran {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to migrate")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d of %d (skipped %d, failed %d)\n",
				stats.Migrated, stats.Total, stats.Skipped, stats.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "legacy file (default: migration.legacy_path)")
	return cmd
}

func (c *cli) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if fileExists(c.configPath) {
					return errors.New("config already exists at " + c.configPath + " (use --force)")
				}
			}
			if err := config.Default().SaveTo(c.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", c.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}
