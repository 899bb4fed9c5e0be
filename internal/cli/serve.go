package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhangqin/crossgraph/internal/api"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the knowledge graph HTTP service",
	Long: `Serve exposes the graph over HTTP: query endpoints for the front end,
search-or-ingest, bootstrap control, and on-demand mining.

On startup, if a store is configured and below its seeding targets, a
bootstrap run is kicked off in the background.

Example:
  crossgraph serve
  crossgraph serve --addr :8001`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildComponents(false)
	if err != nil {
		return err
	}
	defer app.log.Sync()
	if app.store != nil {
		defer func() { _ = app.store.Close(context.Background()) }()
	}

	addr := serveAddr
	if addr == "" {
		addr = app.cfg.Server.Addr
	}

	handler := api.NewRouter(api.NewApp(app.store, app.miner, app.boot, app.log))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Seed the graph in the background if it is still below target.
	if app.store != nil {
		go func() {
			status := app.boot.Status(context.Background())
			if status.Ready {
				app.log.Info("graph already at bootstrap targets",
					"nodes", status.Counts.Nodes, "edges", status.Counts.Edges)
				return
			}
			app.boot.Trigger()
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	app.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	app.log.Info("server stopped")
	return nil
}
