package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/toogle/internal/dependency"
	"github.com/crystaldolphin/toogle/internal/mcp"
)

var (
	serveHTTPAddr string
	serveNoStdio  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio (and optionally HTTP)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "Also serve MCP over HTTP on this address (e.g. 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveNoStdio, "no-stdio", false, "Do not serve on stdin/stdout")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	addr := cfg.Server.HTTPAddr
	if serveHTTPAddr != "" {
		addr = serveHTTPAddr
	}
	stdio := cfg.Server.Stdio && !serveNoStdio
	if !stdio && addr == "" {
		return errors.New("nothing to serve: stdio is disabled and no HTTP address is set")
	}
	cmd.SilenceUsage = true

	c, err := dependency.New(cfg, logger, version)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if addr != "" {
		if cfg.Server.Token == "" {
			logger.Warn("server.token not set; HTTP endpoints are open")
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           c.Server().Router(mcp.HTTPOptions{Token: cfg.Server.Token, Metrics: c.MetricsHandler()}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("MCP HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if stdio {
		fmt.Fprintln(os.Stderr, "toogle MCP server running on stdio")
		g.Go(func() error {
			// stdin closing ends the whole process, HTTP included.
			defer stop()
			return c.Server().Serve(gctx, os.Stdin, os.Stdout)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("serve failed", "error", err)
		return err
	}
	return nil
}
