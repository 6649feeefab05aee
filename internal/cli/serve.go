package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokmeta/internal/config"
	"tokmeta/internal/cookies"
	"tokmeta/internal/extractor"
	"tokmeta/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction service",
	Long: `Start an HTTP server that resolves video URLs into stream metadata.

Examples:
  tokmeta serve              # Start server on port 8080
  tokmeta serve -p 9000      # Start server on port 9000

API Endpoints:
  GET /health                # Health check
  GET /extract/              # Extract metadata
      ?video_url=<url>       #   required
      &no_watermark=true     #   prefer no-watermark variants
      &refresh_cookies=true  #   force cookie regeneration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default: 8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.LoadOrDefault()

	if !config.Exists() {
		fmt.Fprintf(os.Stderr, "\033[33mWarning: config file not found, using defaults. Run 'tokmeta init' to create one.\033[0m\n")
	}

	// Resolve port (flag > config > default)
	port := servePort
	if port == 0 {
		if cfg.Server.Port > 0 {
			port = cfg.Server.Port
		} else {
			port = 8080
		}
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	svc := newService(cfg, log)
	srv := server.New(port, svc, log)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}()

	return srv.Start()
}

// newService wires the cookie store, browser source, and yt-dlp engine from
// config into an extraction service
func newService(cfg *config.Config, log *zap.Logger) *extractor.Service {
	source := cookies.NewBrowserSource(cfg.Cookies.GuestURL, cfg.Cookies.GetBrowserTimeout(), log)
	store := cookies.NewStore(cfg.Cookies.File, cfg.Cookies.GetMaxAge(), source, log)
	engine := extractor.NewYtDlp(cfg.Engine, log)
	return extractor.NewService(engine, store, log)
}
