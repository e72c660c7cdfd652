package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagebuilder/internal/storage"
)

// approvals: decide on destructive actions requested by a running MCP server.
func approvalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Review actions waiting for approval",
	}
	cmd.AddCommand(
		approvalsListCmd(),
		approvalsResolveCmd("approve", "Approve a pending action", true),
		approvalsResolveCmd("reject", "Reject a pending action", false),
	)
	return cmd
}

func approvalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := appCtx.Approvals.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				if pending == nil {
					pending = []storage.Approval{}
				}
				return printJSON(pending)
			}
			rows := make([][]string, 0, len(pending))
			for _, a := range pending {
				rows = append(rows, []string{a.ID, a.Tool, a.Description, formatTime(a.CreatedAt)})
			}
			return printTable([]string{"ID", "TOOL", "DESCRIPTION", "REQUESTED"}, rows)
		},
	}
}

func approvalsResolveCmd(use, short string, approved bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Approvals.Resolve(cmd.Context(), args[0], approved); err != nil {
				return err
			}
			if approved {
				fmt.Println("Action approved.")
			} else {
				fmt.Println("Action rejected.")
			}
			return nil
		},
	}
}
