package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/omarawad11/finsched/internal/task"
	"github.com/omarawad11/finsched/modules/store/sqlite"
	"github.com/spf13/cobra"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage scheduled tasks",
	}
	cmd.PersistentFlags().String("db", "", "Path to the task database")
	cmd.AddCommand(taskAddCmd(), taskListCmd())
	return cmd
}

func taskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a scheduled task interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				title     string
				desc      string
				frequency string
				role      string
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Title").
						Description("Shown in notification subjects").
						Validate(notEmpty("title")).
						Value(&title),
					huh.NewText().
						Title("Description").
						Description("The prompt sent to the analysis backend").
						Validate(notEmpty("description")).
						Value(&desc),
					huh.NewInput().
						Title("Frequency").
						Description("Free text; \"daily\", \"hourly\" and \"monthly\" reschedule").
						Suggestions([]string{"daily", "hourly", "monthly"}).
						Validate(notEmpty("frequency")).
						Value(&frequency),
					huh.NewInput().
						Title("Role").
						Description("Recipient role to notify with results").
						Validate(notEmpty("role")).
						Value(&role),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			if note := frequencyNote(frequency); note != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), note)
			}

			admin, db, err := sqlite.OpenStore(storeConfig(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := admin.InsertTask(context.Background(), task.Task{
				Title:       title,
				Description: desc,
				Frequency:   frequency,
				Role:        role,
				NextRun:     time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Task %d created (first run on next scan)\n", id)
			return nil
		},
	}
}

func taskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, db, err := sqlite.OpenStore(storeConfig(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			tasks, err := admin.ListTasks(context.Background())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No scheduled tasks.")
				return nil
			}

			for _, t := range tasks {
				fmt.Printf("%4d  %-30s  %-10s  %-15s  next %s\n",
					t.ID, t.Title, t.Frequency, t.Role,
					t.NextRun.UTC().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func recipientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipient",
		Short: "Manage notification recipients",
	}
	cmd.PersistentFlags().String("db", "", "Path to the task database")
	cmd.AddCommand(&cobra.Command{
		Use:   "add <role> <email>",
		Short: "Subscribe an email address to a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, email := args[0], args[1]
			if !strings.Contains(email, "@") {
				return fmt.Errorf("invalid email address %q", email)
			}

			admin, db, err := sqlite.OpenStore(storeConfig(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := admin.AddRecipient(context.Background(), role, email); err != nil {
				return err
			}
			fmt.Printf("Recipient %s subscribed to role %q\n", email, role)
			return nil
		},
	})
	return cmd
}

// storeConfig resolves the database path from the --db flag, falling
// back to the default data directory.
func storeConfig(cmd *cobra.Command) sqlite.Config {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = filepath.Join(defaultDataDir(), "finsched.db")
	}
	return sqlite.Config{Path: path}
}

// frequencyNote returns a caution for frequency descriptors that never
// reschedule: the scan loop runs such tasks again on every scan.
func frequencyNote(frequency string) string {
	if task.Recurring(frequency) {
		return ""
	}
	return fmt.Sprintf("warning: frequency %q does not reschedule; the task will run on every scan", frequency)
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
