package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/api"
	"github.com/reloquent/bqddl/web"
)

var (
	servePort    int
	serveDevMode bool
	serveTypeMap string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DDL preview server",
	Long: `Start an HTTP server on localhost that renders columns, tables, datasets
and whole models as DDL on request, plus a small preview page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, done := setupLogger(cfg)
		defer done()

		port := cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		tm, err := loadTypeMap(serveTypeMap)
		if err != nil {
			return err
		}

		distFS, err := fs.Sub(web.DistFS, "dist")
		if err != nil {
			return fmt.Errorf("loading embedded preview page: %w", err)
		}

		srv := api.New(cfg, logger, port,
			api.WithStaticFS(distFS),
			api.WithDevMode(serveDevMode),
			api.WithTypeMap(tm),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		fmt.Fprintf(os.Stderr, "bqddl preview: http://localhost:%d\n", port)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8231, "port for the preview server (default from config)")
	serveCmd.Flags().BoolVar(&serveDevMode, "dev", false, "enable CORS for development mode")
	serveCmd.Flags().StringVar(&serveTypeMap, "typemap", "", "type mapping file (YAML)")
	rootCmd.AddCommand(serveCmd)
}
