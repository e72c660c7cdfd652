package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"pagebuilder/internal/httpapi"
	mcpserver "pagebuilder/internal/mcp"
)

// ServeMCP runs the editor as an MCP server on stdin/stdout until the client
// disconnects. Destructive tools wait for a decision recorded in the database
// unless the config enables auto-approval.
func (a *App) ServeMCP(ctx context.Context) error {
	if err := a.startBackground(); err != nil {
		return err
	}

	srv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:     a.Emitter,
		Pages:       a.Pages,
		Sessions:    a.Sessions,
		Templates:   a.Templates,
		Approvals:   a.Approvals,
		AutoApprove: a.Config.MCPAutoApprove,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// ServeHTTP runs the REST API until ctx is cancelled, then shuts down
// gracefully.
func (a *App) ServeHTTP(ctx context.Context) error {
	if err := a.startBackground(); err != nil {
		return err
	}

	watcher := newApprovalWatcher(ctx, a.Approvals, a.Emitter)
	watcher.Start()
	defer watcher.Stop()

	srv := &http.Server{
		Addr: ":" + a.Config.Port,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Pages:     a.Pages,
			Sessions:  a.Sessions,
			Templates: a.Templates,
			Approvals: a.Approvals,
		}, a.Config.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[http] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[http] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
