package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskTitle string
	taskDate  string
	taskTags  []string
)

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title")
	taskAddCmd.Flags().StringVar(&taskDate, "date", "", "day of the task (default today)")
	taskAddCmd.Flags().StringSliceVar(&taskTags, "tag", nil, "tag (repeatable)")
	taskListCmd.Flags().StringVar(&taskDate, "date", "", "only tasks on this day")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		task, err := c.gw.CreateTask(ctx, model.Task{Title: taskTitle, Date: taskDate, Tags: taskTags})
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "task", task.ID, task.Title)
		return nil
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		tasks, err := c.gw.ListTasks(ctx, taskDate)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			printEmpty(out, "tasks")
			return nil
		}
		printHeader(out, "tasks")
		for _, task := range tasks {
			fmt.Fprintln(out, row(task.ID, task.Date, task.Status, task.Priority, task.Title))
		}
		return nil
	})
}
