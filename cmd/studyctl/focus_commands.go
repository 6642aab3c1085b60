package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/model"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run focus sessions and inspect focus statistics",
}

var (
	runMinutes  int
	runTimer    string
	runTemplate string
	runTask     string
	runTags     []string
	runNote     string
	runActual   int
	runStatus   string
	runDate     string
)

var focusRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a focus run and wait for it to finish",
	Long: "Start a focus run. Without --actual the run counts down until it expires " +
		"(completed) or is interrupted (aborted). With --actual it is recorded at once.",
	Args: cobra.NoArgs,
	RunE: runFocusRun,
}

var (
	statsStart     string
	statsEnd       string
	statsDimension string
	runsStatus     string
)

var focusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize focus runs over a date range",
	Args:  cobra.NoArgs,
	RunE:  runFocusStats,
}

var focusRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List focus runs",
	Args:  cobra.NoArgs,
	RunE:  runFocusRuns,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.AddCommand(focusRunCmd, focusStatsCmd, focusRunsCmd)

	flags := focusRunCmd.Flags()
	flags.IntVarP(&runMinutes, "minutes", "m", 25, "planned minutes")
	flags.StringVar(&runTimer, "timer", model.TimerTypePomodoro, "timer type: pomodoro or countdown")
	flags.StringVar(&runTemplate, "template", "", "seed the run from a template id")
	flags.StringVar(&runTask, "task", "", "link the run to a task id")
	flags.StringSliceVar(&runTags, "tag", nil, "tag the run (repeatable)")
	flags.StringVar(&runNote, "note", "", "note for the run")
	flags.StringVar(&runDate, "date", "", "bucket day for the run (YYYY-MM-DD, default today)")
	flags.IntVar(&runActual, "actual", 0, "record the run immediately with this many focused seconds")
	flags.StringVar(&runStatus, "status", model.RunStatusCompleted, "terminal status used with --actual")

	for _, cmd := range []*cobra.Command{focusStatsCmd, focusRunsCmd} {
		cmd.Flags().StringVar(&statsStart, "start", "", "first date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&statsEnd, "end", "", "last date (YYYY-MM-DD)")
	}
	focusStatsCmd.Flags().StringVar(&statsDimension, "by", model.DimensionTag, "slice by tag, template or timer_type")
	focusRunsCmd.Flags().StringVar(&runsStatus, "status", "", "only runs with this status")
}

func runFocusRun(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		if runTemplate == "" {
			return focusRun(ctx, cmd, c, nil)
		}
		return c.withTemplates(func(manager *focus.TemplateManager) error {
			return focusRun(ctx, cmd, c, manager)
		})
	})
}

// focusRun starts one run and waits for it to end. A template run is
// recorded in recents only once the engine accepts it.
func focusRun(ctx context.Context, cmd *cobra.Command, c *client, manager *focus.TemplateManager) error {
	req := focus.StartRequest{
		TimerType:      runTimer,
		PlannedMinutes: runMinutes,
		Tags:           runTags,
	}
	if manager != nil {
		seeded, err := manager.Seed(ctx, runTemplate)
		if err != nil {
			return err
		}
		req = seeded
		if cmd.Flags().Changed("minutes") {
			req.PlannedMinutes = runMinutes
		}
		if cmd.Flags().Changed("tag") {
			req.Tags = runTags
		}
	}
	if runTask != "" {
		req.TaskID = &runTask
	}
	if runNote != "" {
		req.Note = &runNote
	}
	req.Date = runDate

	done := make(chan model.FocusRun, 1)
	engine := focus.NewEngine(c.store,
		focus.WithLogger(c.log),
		focus.WithWriteTimeout(c.cfg.FocusWriteTimeout),
		focus.WithOnFinish(func(run model.FocusRun) { done <- run }),
	)
	defer engine.Close()

	started, err := engine.Start(req)
	if err != nil {
		return err
	}
	if manager != nil {
		manager.Started(started)
	}
	out := cmd.OutOrStdout()
	if !quietFlag {
		fmt.Fprintln(out, row(headerStyle.Render("focus"), started.ID, started.TimerType, fmt.Sprintf("%dm", started.PlannedMinutes)))
	}

	if cmd.Flags().Changed("actual") {
		if _, err := engine.Finalize(started.ID, runStatus, &runActual); err != nil {
			return err
		}
	} else {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)
		select {
		case <-done:
			engine.Flush()
			return reportRun(cmd, started.ID)
		case <-interrupt:
			engine.Stop()
		case <-ctx.Done():
			engine.Stop()
		}
	}
	engine.Flush()
	return reportRun(cmd, started.ID)
}

func reportRun(cmd *cobra.Command, id string) error {
	out := cmd.OutOrStdout()
	if quietFlag {
		fmt.Fprintln(out, id)
		return nil
	}
	fmt.Fprintln(out, okStyle.Render("finished"), id)
	return nil
}

func runFocusStats(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		result, err := c.gw.GetFocusStats(ctx, model.FocusStatsQuery{
			StartDate: statsStart,
			EndDate:   statsEnd,
			Dimension: statsDimension,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printHeader(out, fmt.Sprintf("focus %s .. %s by %s", result.StartDate, result.EndDate, result.Dimension))
		fmt.Fprintf(out, "minutes %d  runs %d/%d  completion %.1f%%\n",
			result.Summary.TotalFocusMinutes, result.Summary.CompletedRuns, result.Summary.TotalRuns, result.Summary.CompletionRate)
		for _, slice := range result.Slices {
			fmt.Fprintln(out, row(slice.Key, fmt.Sprintf("%dm", slice.Minutes), fmt.Sprintf("%d runs", slice.Runs), fmt.Sprintf("%.1f%%", slice.Percent)))
		}
		return nil
	})
}

func runFocusRuns(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		runs, err := c.gw.ListFocusRuns(ctx, model.FocusRunQuery{
			StartDate: statsStart,
			EndDate:   statsEnd,
			Status:    runsStatus,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			printEmpty(out, "focus runs")
			return nil
		}
		printHeader(out, "focus runs")
		for _, run := range runs {
			fmt.Fprintln(out, row(run.ID, run.Date, run.Status, run.TimerType, fmt.Sprintf("%ds/%dm", run.ActualSeconds, run.PlannedMinutes)))
		}
		return nil
	})
}
