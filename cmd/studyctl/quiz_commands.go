package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/model"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Practice choice questions with spaced repetition",
}

var (
	quizSubject string
	quizStem    string
	quizOptions []string
	quizAnswer  string
)

var quizAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a choice question",
	Args:  cobra.NoArgs,
	RunE:  runQuizAdd,
}

var quizDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List questions due for review",
	Args:  cobra.NoArgs,
	RunE:  runQuizDue,
}

var quizWrong bool

var quizAnswerCmd = &cobra.Command{
	Use:   "answer <id>",
	Short: "Record an answer and reschedule the question",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizAnswer,
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.AddCommand(quizAddCmd, quizDueCmd, quizAnswerCmd)

	quizAddCmd.Flags().StringVar(&quizSubject, "subject", "", "subject")
	quizAddCmd.Flags().StringVar(&quizStem, "stem", "", "question text")
	quizAddCmd.Flags().StringArrayVar(&quizOptions, "option", nil, "answer option (exactly four)")
	quizAddCmd.Flags().StringVar(&quizAnswer, "answer", "", "correct option letter A-D")

	quizDueCmd.Flags().StringVar(&quizSubject, "subject", "", "only this subject")

	quizAnswerCmd.Flags().BoolVar(&quizWrong, "wrong", false, "record an incorrect answer")
}

func runQuizAdd(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		question, err := c.gw.CreateQuestion(ctx, model.QuizQuestionInput{
			Subject: quizSubject,
			Type:    model.QuestionTypeChoice,
			Stem:    quizStem,
			Options: quizOptions,
			Answer:  quizAnswer,
		})
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "question", question.ID, question.Stem)
		return nil
	})
}

func runQuizDue(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		questions, err := c.gw.GetDueQuestions(ctx, quizSubject)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(questions) == 0 {
			printEmpty(out, "questions due")
			return nil
		}
		printHeader(out, fmt.Sprintf("%d due", len(questions)))
		for _, q := range questions {
			next := "new"
			if q.NextReview != nil {
				next = *q.NextReview
			}
			fmt.Fprintln(out, row(q.ID, q.Subject, next, q.Stem))
		}
		return nil
	})
}

func runQuizAnswer(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		question, err := c.gw.AnswerQuestion(ctx, args[0], !quizWrong)
		if err != nil {
			return err
		}
		next := ""
		if question.NextReview != nil {
			next = *question.NextReview
		}
		fmt.Fprintf(cmd.OutOrStdout(), "next review %s  interval %dd  ease %.2f\n", next, question.Interval, question.EaseFactor)
		return nil
	})
}
