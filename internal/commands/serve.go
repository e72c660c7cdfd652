package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveMCPCmd() *cobra.Command {
	var autoApprove bool
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run the MCP server on stdin/stdout",
		Long: "Run the MCP server on stdin/stdout. Publishing and deleting pages wait\n" +
			"for a decision made with `pagebuilder approvals` or the HTTP API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("auto-approve") {
				appCtx.Config.MCPAutoApprove = autoApprove
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return appCtx.ServeMCP(ctx)
		},
	}
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "approve destructive tools without asking")
	return cmd
}

func serveHTTPCmd() *cobra.Command {
	var port, corsOrigin string
	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Run the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				appCtx.Config.Port = port
			}
			if cmd.Flags().Changed("cors-origin") {
				appCtx.Config.CORSOrigin = corsOrigin
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return appCtx.ServeHTTP(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 8080)")
	cmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "allowed CORS origin")
	return cmd
}
