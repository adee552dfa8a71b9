package main

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
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hazz-dev/svcboard/internal/alert"
	"github.com/hazz-dev/svcboard/internal/config"
	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/format"
	"github.com/hazz-dev/svcboard/internal/logging"
	"github.com/hazz-dev/svcboard/internal/metrics"
	"github.com/hazz-dev/svcboard/internal/rows"
	"github.com/hazz-dev/svcboard/internal/server"
	"github.com/hazz-dev/svcboard/internal/storage"
	"github.com/hazz-dev/svcboard/internal/version"
	"github.com/hazz-dev/svcboard/internal/view"
	"github.com/hazz-dev/svcboard/internal/watch"
)

var (
	cfgFile      string
	directoryURL string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "svcboard",
		Short:        "Dashboard for a service directory",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config.yml", "config file path")
	root.PersistentFlags().StringVar(&directoryURL, "directory", "", "directory API base URL (overrides directory.base_url)")

	root.AddCommand(versionCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(listCmd())
	root.AddCommand(addCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(historyCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads the config file. A missing file is tolerated when
// --directory supplies the one required setting.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, config.WithBaseURL(directoryURL))
	if err != nil && errors.Is(err, fs.ErrNotExist) && directoryURL != "" {
		cfg, err = config.Parse(nil, config.WithBaseURL(directoryURL))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// app is the wiring shared by every command that talks to the directory.
type app struct {
	cfg     *config.Config
	logger  *zap.SugaredLogger
	metrics *metrics.Registry
	client  *directory.Client
	ctrl    *view.Controller
	db      *storage.DB
}

// newApp builds the directory client and view controller from config. The
// journal is only opened when withJournal is set.
func newApp(withJournal bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Env)
	if err != nil {
		return nil, err
	}

	reg := metrics.New()
	client := directory.New(cfg.Directory.BaseURL,
		directory.WithHTTPClient(&http.Client{Timeout: cfg.Directory.Timeout.Duration}),
		directory.WithLogger(logger),
		directory.WithMetrics(reg),
	)
	builder := rows.NewBuilder(format.New(cfg.Display.TimeFormat, cfg.Display.Location()))
	ctrl := view.New(client, builder, logger)
	ctrl.SetMetrics(reg)

	a := &app{cfg: cfg, logger: logger, metrics: reg, client: client, ctrl: ctrl}
	if withJournal {
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.db = db
		ctrl.SetJournal(db)
	}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	a.logger.Sync()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger
	cfg := a.cfg
	logger.Infow("config loaded", "directory", cfg.Directory.BaseURL, "storage", cfg.Storage.Path)

	srv := server.New(server.Deps{
		Controller:   a.ctrl,
		DirectoryURL: cfg.Directory.BaseURL,
		Journal:      a.db,
		Metrics:      a.metrics,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Alerts.Webhook.URL != "" {
		alerter := alert.New(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Cooldown.Duration, logger)
		watcher := watch.New(a.client, cfg.Watch.Interval.Duration, logger)
		watcher.SetOnChange(alerter.Notify)
		watcher.Start(gctx)
		logger.Infow("watcher started", "interval", cfg.Watch.Interval.Duration)
		g.Go(func() error {
			watcher.Wait()
			return nil
		})
	}

	g.Go(func() error {
		logger.Infow("listening", "address", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("HTTP server shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Infow("shutdown complete")
	return nil
}
