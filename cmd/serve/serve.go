// Package serve runs the HTTP API
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/internal/api"
	"fjacquet/finance-peres/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var addr string

// Cmd starts the API server
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transaction API over HTTP",
	Long: `Serve the JSON API used by the web front end. The store is loaded from the
local cache immediately and refreshed from the spreadsheet in the background.`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	app := root.GetContainer()
	if app == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := app.GetConfig()
	logger := app.GetLogger()

	listen := addr
	if listen == "" {
		listen = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(root.Context(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.GetStore().Start(ctx)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Dependencies{
		Store:          app.GetStore(),
		Catalog:        app.GetCatalog(),
		Insights:       app.GetInsights(),
		Exporter:       app.GetExporter(),
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CurrencySymbol: cfg.Export.CurrencySymbol,
	})

	srv := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API listening", logging.F("addr", listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error serving API: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down API")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
