// esclientd is a daemon that holds one multiplexed TCP connection to an
// EventStore node and exposes its health and live counters over a small
// administrative Connect facade.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/goeventstore/internal/adminserver"
	"github.com/dantte-lp/goeventstore/internal/esconfig"
	"github.com/dantte-lp/goeventstore/internal/esmetrics"
	"github.com/dantte-lp/goeventstore/internal/transport"
)

// shutdownTimeout bounds how long HTTP servers are given to drain active
// connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()))
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(esconfig.ParseLogLevel(cfg.Log.Level))
	logger := newLogger(cfg.Log, logLevel)

	logger.Info("esclientd starting",
		slog.String("connection_addr", cfg.Connection.Addr),
		slog.String("admin_addr", cfg.Admin.Addr),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	reg := prometheus.NewRegistry()
	collector := esmetrics.NewCollector(reg)

	if err := runServers(cfg, collector, reg, logger); err != nil {
		logger.Error("esclientd exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("esclientd stopped")
	return 0
}

// runServers dials the EventStore connection and serves the admin and
// metrics HTTP endpoints using an errgroup with signal-aware context for
// graceful shutdown.
func runServers(
	cfg *esconfig.Config,
	collector *esmetrics.Collector,
	reg *prometheus.Registry,
	logger *slog.Logger,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	dialCtx, cancelDial := context.WithTimeout(gCtx, cfg.Connection.DialTimeout)
	conn, err := transport.Dial(dialCtx, transport.Config{
		Addr:              cfg.Connection.Addr,
		Username:          cfg.Connection.Username,
		Password:          cfg.Connection.Password,
		DialTimeout:       cfg.Connection.DialTimeout,
		WriteTimeout:      cfg.Connection.WriteTimeout,
		PendingBufferSize: cfg.Connection.PendingBufferSize,
	}, collector, logger)
	cancelDial()
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Connection.Addr, err)
	}
	defer conn.Close()

	stats := &stats{conn: conn}

	adminSrv := newAdminServer(cfg.Admin, stats, logger)
	metricsSrv := newMetricsServer(cfg.Metrics, reg)

	startHTTPServers(gCtx, g, cfg, adminSrv, metricsSrv, logger)

	notifyReady(logger)

	g.Go(func() error {
		return runWatchdog(gCtx, logger)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, conn, logger, adminSrv, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// stats adapts a live transport.Connection to adminserver.StatsProvider.
type stats struct {
	conn *transport.Connection
}

func (s *stats) Stats() map[string]any {
	return map[string]any{
		"connection_addr": s.conn.Addr(),
	}
}

// -------------------------------------------------------------------------
// HTTP servers
// -------------------------------------------------------------------------

func startHTTPServers(
	ctx context.Context,
	g *errgroup.Group,
	cfg *esconfig.Config,
	adminSrv *http.Server,
	metricsSrv *http.Server,
	logger *slog.Logger,
) {
	lc := net.ListenConfig{}

	g.Go(func() error {
		logger.Info("admin server listening", slog.String("addr", cfg.Admin.Addr))
		return listenAndServe(ctx, &lc, adminSrv, cfg.Admin.Addr)
	})

	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path))
		return listenAndServe(ctx, &lc, metricsSrv, cfg.Metrics.Addr)
	})
}

func listenAndServe(ctx context.Context, lc *net.ListenConfig, srv *http.Server, addr string) error {
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

func newMetricsServer(cfg esconfig.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newAdminServer mounts the health and stats handlers over h2c, needed for
// gRPC-style clients to reach this server without TLS.
func newAdminServer(cfg esconfig.AdminConfig, stats adminserver.StatsProvider, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	healthPath, healthHandler, statsPath, statsHandler := adminserver.New(stats, logger)
	mux.Handle(healthPath, healthHandler)
	mux.Handle(statsPath, statsHandler)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// -------------------------------------------------------------------------
// Shutdown
// -------------------------------------------------------------------------

func gracefulShutdown(
	ctx context.Context,
	conn *transport.Connection,
	logger *slog.Logger,
	servers ...*http.Server,
) error {
	logger.Info("initiating graceful shutdown")
	notifyStopping(logger)

	if err := conn.Close(); err != nil {
		logger.Warn("error closing connection", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdown server: %w", err))
		}
	}
	return shutdownErr
}

// -------------------------------------------------------------------------
// Systemd integration
// -------------------------------------------------------------------------

func notifyReady(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("failed to notify systemd readiness", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: READY")
	}
}

func notifyStopping(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.Warn("failed to notify systemd stopping", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: STOPPING")
	}
}

// runWatchdog sends periodic watchdog keepalives to systemd. The interval
// is WatchdogSec/2 as recommended by the systemd documentation. If the
// watchdog is not configured, the goroutine exits immediately.
func runWatchdog(ctx context.Context, logger *slog.Logger) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("failed to check systemd watchdog", slog.String("error", err.Error()))
		return nil
	}
	if interval == 0 {
		return nil
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				logger.Warn("failed to send watchdog keepalive", slog.String("error", err.Error()))
			}
		}
	}
}

// -------------------------------------------------------------------------
// Config and logging setup
// -------------------------------------------------------------------------

func loadConfig(path string) (*esconfig.Config, error) {
	if path != "" {
		cfg, err := esconfig.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return esconfig.DefaultConfig(), nil
}

func newLogger(cfg esconfig.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
