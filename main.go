package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/view"
	"github.com/Zachkp/portfolio/internal/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio:", err)
		stop()
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a static snapshot of the page with every section revealed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := exportPage(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "index.html", "output file")
	return cmd
}

// exportPage renders the page as a visitor sees it after scrolling through.
func exportPage(w io.Writer) error {
	aboutHTML, err := view.Markdown(content.AboutStory)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	sess, err := page.NewSession(page.Options{})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return view.Render(w, view.Page(view.PageData{
		Snapshot:  sess.Snapshot().Revealed(),
		AboutHTML: aboutHTML,
		Static:    true,
	}))
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	clock := clockwork.NewRealClock()
	st, err := store.Open(ctx, cfg.DatabaseURL, clock)
	if err != nil {
		return err
	}
	defer safeClose(st)

	aboutHTML, err := view.Markdown(content.AboutStory)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	s := newSite(cfg, st, hub, page.Options{
		Clock:        clock,
		RoleInterval: cfg.RoleInterval,
		SubmitDelay:  cfg.SubmitDelay,
	}, aboutHTML)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return s.sessions.Run(gctx) })
	g.Go(func() error { return s.runCleanup(gctx) })
	g.Go(func() error {
		logger.Log.WithField("addr", server.Addr).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("main: http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("HTTP server shutdown failed")
		}
		return nil
	})

	return g.Wait()
}

func safeClose(st *store.Store) {
	if err := st.Close(); err != nil {
		logger.Log.WithError(err).Error("Failed to close store")
	}
}
