package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/model"
	"studydesk/backend/internal/week"
)

var wrongCmd = &cobra.Command{
	Use:   "wrong",
	Short: "Manage the wrong-question book",
}

var (
	wrongSubject  string
	wrongContent  string
	wrongTags     []string
	wrongArchived bool
)

var wrongAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a wrong question",
	Args:  cobra.NoArgs,
	RunE:  runWrongAdd,
}

var wrongListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wrong questions",
	Args:  cobra.NoArgs,
	RunE:  runWrongList,
}

var wrongArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a wrong question",
	Args:  cobra.ExactArgs(1),
	RunE:  runWrongArchive,
}

var wrongDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a wrong question; weekly review items keep their snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runWrongDelete,
}

func init() {
	rootCmd.AddCommand(wrongCmd)
	wrongCmd.AddCommand(wrongAddCmd, wrongListCmd, wrongArchiveCmd, wrongDeleteCmd)

	wrongAddCmd.Flags().StringVar(&wrongSubject, "subject", "", "subject")
	wrongAddCmd.Flags().StringVar(&wrongContent, "content", "", "question content (markdown)")
	wrongAddCmd.Flags().StringSliceVar(&wrongTags, "tag", nil, "tag (repeatable)")

	wrongListCmd.Flags().BoolVar(&wrongArchived, "archived", false, "list archived questions")
	wrongListCmd.Flags().StringVar(&wrongSubject, "subject", "", "only this subject")
}

func runWrongAdd(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		question, err := c.gw.CreateWrongQuestion(ctx, model.WrongQuestionInput{
			Subject:         wrongSubject,
			QuestionContent: wrongContent,
			Tags:            wrongTags,
		})
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "wrong question", question.ID, model.SummarizeQuestion(question.QuestionContent, model.SnapshotTitleLength))
		return nil
	})
}

func runWrongList(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		questions, err := c.gw.ListWrongQuestions(ctx, model.WrongQuestionFilter{Archived: wrongArchived, Subject: wrongSubject})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(questions) == 0 {
			printEmpty(out, "wrong questions")
			return nil
		}
		printHeader(out, "wrong questions")
		today := week.Today(time.Now())
		for _, q := range questions {
			due := ""
			if q.NextReviewDate != nil && *q.NextReviewDate <= today {
				due = okStyle.Render("due")
			}
			fmt.Fprintln(out, row(q.ID, q.Subject, fmt.Sprintf("mastery %d", q.MasteryLevel), model.SummarizeQuestion(q.QuestionContent, model.SnapshotTitleLength), due))
		}
		return nil
	})
}

func runWrongArchive(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		if err := c.gw.ArchiveWrongQuestion(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("archived"), args[0])
		return nil
	})
}

func runWrongDelete(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		if err := c.gw.DeleteWrongQuestion(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("deleted"), args[0])
		return nil
	})
}
