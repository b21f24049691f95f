package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/procboard/internal/config"
	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/mcp"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/storage"
	"github.com/rpggio/procboard/internal/transport"
	"github.com/spf13/pflag"
)

// version is set at build time via ldflags.
var version = "dev"

type services struct {
	processes   *process.Service
	coordinator *namespace.Coordinator
	lists       *list.Service
	cards       *card.Service
	charts      *chart.Service
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "procboard: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var configPath, logLevel, mode string
	flagSet := pflag.NewFlagSet("procboard", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config (default: $PROCBOARD_CONFIG_PATH)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&mode, "transport", "", "transport mode: stdio or http")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.ModeStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metaDB, err := openStore(ctx, "metadata", cfg.Metadata)
	if err != nil {
		return err
	}
	defer metaDB.Close()

	nsDB, err := openStore(ctx, "namespaces", cfg.Namespaces)
	if err != nil {
		return err
	}
	defer nsDB.Close()

	svc := wire(metaDB, nsDB, prometheus.DefaultRegisterer, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Processes:   svc.processes,
			Coordinator: svc.coordinator,
			Lists:       svc.lists,
			Cards:       svc.cards,
			Charts:      svc.charts,
		},
		Version: version,
		Logger:  logger,
	})

	if cfg.Transport.Mode == config.ModeStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, svc, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

// openStore opens one store client and applies its schema.
func openStore(ctx context.Context, name string, sc config.StoreConfig) (*storage.DB, error) {
	if sc.Driver == storage.DriverSQLite {
		if err := ensureDBDir(sc.DSN); err != nil {
			return nil, fmt.Errorf("prepare %s database path: %w", name, err)
		}
	}
	db, err := storage.Open(sc.Driver, sc.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", name, err)
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", name, err)
	}
	return db, nil
}

func wire(metaDB, nsDB *storage.DB, reg prometheus.Registerer, logger *slog.Logger) services {
	processes := process.NewService(storage.NewProcessRepository(metaDB), logger)
	coordinator := namespace.NewCoordinator(
		storage.NewNamespaceStore(nsDB),
		processes,
		namespace.NewMetrics(reg),
		logger,
	)

	listRepo := storage.NewListRepository(nsDB)
	cardRepo := storage.NewCardRepository(nsDB)
	return services{
		processes:   processes,
		coordinator: coordinator,
		lists:       list.NewService(coordinator, listRepo, cardRepo, logger),
		cards:       card.NewService(coordinator, cardRepo, listRepo, logger),
		charts:      chart.NewService(coordinator, storage.NewChartRepository(nsDB), logger),
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, svc services, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(transport.Services{
		Processes:   svc.processes,
		Coordinator: svc.coordinator,
		Lists:       svc.lists,
		Cards:       svc.cards,
		Charts:      svc.charts,
	}, transport.Options{
		MCP:     mcpHandler,
		Metrics: promhttp.Handler(),
		Logger:  logger,
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

func ensureDBDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
