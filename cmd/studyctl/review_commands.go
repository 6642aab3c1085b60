package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/model"
	"studydesk/backend/internal/week"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Plan the weekly review of wrong questions",
}

var reviewWeek string

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the review items of a week",
	Args:  cobra.NoArgs,
	RunE:  runReviewList,
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <wrong-question-id>",
	Short: "Add a wrong question to this week's review",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewAdd,
}

var reviewUndo bool

var reviewDoneCmd = &cobra.Command{
	Use:   "done <item-id>",
	Short: "Mark a review item done",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewDone,
}

var reviewCarryCmd = &cobra.Command{
	Use:   "carry <item-id>...",
	Short: "Carry pending items into the following week",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReviewCarry,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd, reviewAddCmd, reviewDoneCmd, reviewCarryCmd)

	reviewListCmd.Flags().StringVar(&reviewWeek, "week", "", "any day of the week to list (default this week)")
	reviewCarryCmd.Flags().StringVar(&reviewWeek, "week", "", "any day of the week the items belong to (default this week)")
	reviewDoneCmd.Flags().BoolVar(&reviewUndo, "undo", false, "move the item back to pending")
}

func printReviewItems(cmd *cobra.Command, title string, items []model.WeeklyReviewItem) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		printEmpty(out, title)
		return
	}
	printHeader(out, title)
	for _, item := range items {
		name := item.DisplayTitle
		if name == "" {
			name = item.TitleSnapshot
		}
		fields := []string{item.ID, item.WeekStart, item.Status, name}
		if item.CarriedFromWeek != nil {
			fields = append(fields, mutedStyle.Render("from "+*item.CarriedFromWeek))
		}
		if item.QuestionMissing {
			fields = append(fields, mutedStyle.Render("deleted"))
		}
		fmt.Fprintln(out, row(fields...))
	}
}

func runReviewList(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		weekStart, err := reviewWeekStart()
		if err != nil {
			return err
		}
		items, err := c.gw.GetWeeklyReviewItems(ctx, weekStart)
		if err != nil {
			return err
		}
		printReviewItems(cmd, "review items", items)
		return nil
	})
}

func runReviewAdd(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		item, err := c.gw.AddWeeklyReviewItem(ctx, args[0])
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "review item", item.ID, item.TitleSnapshot)
		return nil
	})
}

func runReviewDone(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		item, err := c.gw.ToggleWeeklyReviewItemDone(ctx, args[0], !reviewUndo)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(item.Status), item.ID)
		return nil
	})
}

func runReviewCarry(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		from, err := reviewWeekStart()
		if err != nil {
			return err
		}
		items, err := c.gw.CarryWeeklyReviewItemsToNextWeek(ctx, args, from)
		if err != nil {
			return err
		}
		printReviewItems(cmd, fmt.Sprintf("carried %d", len(items)), items)
		return nil
	})
}

// reviewWeekStart is the Monday of --week, or of the current week.
func reviewWeekStart() (string, error) {
	day := reviewWeek
	if day == "" {
		day = week.Today(time.Now())
	}
	return week.StartOf(day)
}
