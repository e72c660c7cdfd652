package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/service"
)

func campaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns",
	}
	cmd.AddCommand(campaignListCmd(), campaignCreateCmd(), campaignDeleteCmd())
	return cmd
}

func campaignListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			campaigns, err := appCtx.Pages.ListCampaigns(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(campaigns)
			}
			rows := make([][]string, 0, len(campaigns))
			for _, c := range campaigns {
				rows = append(rows, []string{c.ID, c.Name, string(c.Status), formatTime(c.StartTime), formatTime(c.EndTime)})
			}
			return printTable([]string{"ID", "NAME", "STATUS", "START", "END"}, rows)
		},
	}
}

func campaignCreateCmd() *cobra.Command {
	var description, start, end string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.CreateCampaignInput{
				Name:        args[0],
				Description: description,
				CreatedBy:   "cli",
			}
			var err error
			if in.StartTime, err = parseFlagTime("start", start); err != nil {
				return err
			}
			if in.EndTime, err = parseFlagTime("end", end); err != nil {
				return err
			}

			c, err := appCtx.Pages.CreateCampaign(cmd.Context(), in)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(c)
			}
			fmt.Printf("Campaign created.\nID: %s\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "campaign description")
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end time (RFC 3339)")
	return cmd
}

func campaignDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a campaign and its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Pages.DeleteCampaign(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Campaign deleted.")
			return nil
		},
	}
}

func parseFlagTime(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected RFC 3339 time: %w", name, err)
	}
	return t, nil
}
