package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/model"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Short:   "Manage focus templates",
	Aliases: []string{"templates"},
}

var templateListAll bool

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List focus templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var (
	templateName    string
	templateTimer   string
	templateMinutes int
	templateTags    []string
	templateTask    string
)

var templateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a focus template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateCreate,
}

var templateArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a focus template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateArchive,
}

var templateRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently used templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateRecent,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd, templateCreateCmd, templateArchiveCmd, templateRecentCmd)

	templateListCmd.Flags().BoolVar(&templateListAll, "all", false, "include archived templates")

	flags := templateCreateCmd.Flags()
	flags.StringVar(&templateName, "name", "", "template name")
	flags.StringVar(&templateTimer, "timer", model.TimerTypePomodoro, "timer type: pomodoro or countdown")
	flags.IntVarP(&templateMinutes, "minutes", "m", 25, "duration in minutes")
	flags.StringSliceVar(&templateTags, "tag", nil, "tag (repeatable)")
	flags.StringVar(&templateTask, "task-title", "", "linked task title, used as the name when --name is empty")
}

func printTemplates(cmd *cobra.Command, title string, templates []model.FocusTemplate) {
	out := cmd.OutOrStdout()
	if len(templates) == 0 {
		printEmpty(out, title)
		return
	}
	printHeader(out, title)
	for _, template := range templates {
		fields := []string{template.ID, template.Name, template.TimerType, fmt.Sprintf("%dm", template.DurationMinutes)}
		if len(template.Tags) > 0 {
			fields = append(fields, "#"+strings.Join(template.Tags, " #"))
		}
		if template.IsArchived {
			fields = append(fields, mutedStyle.Render("archived"))
		}
		fmt.Fprintln(out, row(fields...))
	}
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		templates, err := c.gw.ListFocusTemplates(ctx, templateListAll)
		if err != nil {
			return err
		}
		printTemplates(cmd, "templates", templates)
		return nil
	})
}

func runTemplateCreate(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		return c.withTemplates(func(manager *focus.TemplateManager) error {
			template, err := manager.Create(ctx, model.FocusTemplateInput{
				Name:            templateName,
				TimerType:       templateTimer,
				DurationMinutes: templateMinutes,
				Tags:            templateTags,
				LinkedTaskTitle: templateTask,
			})
			if err != nil {
				return err
			}
			printCreated(cmd.OutOrStdout(), "template", template.ID, template.Name)
			return nil
		})
	})
}

func runTemplateArchive(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		return c.withTemplates(func(manager *focus.TemplateManager) error {
			if err := manager.Archive(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("archived"), args[0])
			return nil
		})
	})
}

func runTemplateRecent(cmd *cobra.Command, args []string) error {
	return run(cmd, func(ctx context.Context, c *client) error {
		return c.withTemplates(func(manager *focus.TemplateManager) error {
			templates, err := manager.Recent(ctx)
			if err != nil {
				return err
			}
			printTemplates(cmd, "recent templates", templates)
			return nil
		})
	})
}
