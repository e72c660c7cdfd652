package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

func pageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage landing pages",
	}
	cmd.AddCommand(
		pageListCmd(),
		pageCreateCmd(),
		pageShowCmd(),
		pagePublishCmd(),
		pageDeleteCmd(),
		pageRevisionsCmd(),
		pageRestoreCmd(),
		pageApplyTemplateCmd(),
	)
	return cmd
}

func pageListCmd() *cobra.Command {
	var campaignID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := appCtx.Pages.ListPages(cmd.Context(), campaignID)
			if err != nil {
				return err
			}
			if jsonOutput {
				if pages == nil {
					pages = []domain.Page{}
				}
				return printJSON(pages)
			}
			rows := make([][]string, 0, len(pages))
			for _, p := range pages {
				rows = append(rows, []string{p.ID, p.Title, string(p.Status), formatTime(p.UpdatedAt), p.PublishedURL})
			}
			return printTable([]string{"ID", "TITLE", "STATUS", "UPDATED", "URL"}, rows)
		},
	}
	cmd.Flags().StringVar(&campaignID, "campaign", "", "only pages of this campaign")
	return cmd
}

func pageCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <campaign-id> <title>",
		Short: "Create an empty page in a campaign",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := appCtx.Pages.CreatePage(cmd.Context(), args[0], args[1], description)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(p)
			}
			fmt.Printf("Page created.\nID: %s\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "page description")
	return cmd
}

func pageShowCmd() *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the stored page document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := appCtx.Pages.LoadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !render {
				return printJSON(doc)
			}
			if jsonOutput {
				return printJSON(doc.RenderPlan())
			}
			rows := [][]string{}
			for i, slot := range doc.RenderPlan() {
				mode := "lazy"
				if slot.Eager {
					mode = "eager"
				}
				rows = append(rows, []string{strconv.Itoa(i), slot.Node.ID, string(slot.Node.Type), slot.Node.Name, mode})
			}
			return printTable([]string{"#", "ID", "TYPE", "NAME", "RENDER"}, rows)
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "print the render plan instead of the document")
	return cmd
}

func pagePublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a page and record a revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := appCtx.Pages.PublishPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(p)
			}
			fmt.Printf("Page published.\nURL: %s\n", p.PublishedURL)
			return nil
		},
	}
}

func pageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a page and its revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := appCtx.Pages.GetPage(ctx, args[0]); err != nil {
				return err
			}
			if err := appCtx.Pages.DeletePage(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Page deleted.")
			return nil
		},
	}
}

func pageRevisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revisions <id>",
		Short: "List the published revisions of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revs, err := appCtx.Pages.ListRevisions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(revs)
			}
			rows := make([][]string, 0, len(revs))
			for _, r := range revs {
				rows = append(rows, []string{r.ID, r.Label, formatTime(r.CreatedAt)})
			}
			return printTable([]string{"ID", "LABEL", "CREATED"}, rows)
		},
	}
}

func pageRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <revision-id>",
		Short: "Restore a published revision and save it as the page content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editAndSave(cmd.Context(), args[0], func() error {
				_, err := appCtx.Sessions.RestoreRevision(cmd.Context(), args[0], args[1])
				return err
			})
		},
	}
}

func pageApplyTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply-template <id> <template-id>",
		Short: "Replace the page content with a template and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editAndSave(cmd.Context(), args[0], func() error {
				_, err := appCtx.Sessions.ApplyTemplate(args[0], args[1])
				return err
			})
		},
	}
}

// editAndSave runs edit against an editor session on the page and saves the
// result. The session is closed without saving when edit fails.
func editAndSave(ctx context.Context, pageID string, edit func() error) error {
	if _, err := appCtx.Sessions.Open(ctx, pageID); err != nil {
		return err
	}
	if err := edit(); err != nil {
		_ = appCtx.Sessions.Close(ctx, pageID, false)
		return err
	}
	if err := appCtx.Sessions.Close(ctx, pageID, true); err != nil {
		return err
	}
	fmt.Println("Page saved.")
	return nil
}
