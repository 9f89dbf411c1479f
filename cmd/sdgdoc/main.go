// CLAUDE:SUMMARY Entry point for the sdgdoc HTTP service — chi router, optional Basic Auth, SQLite history, MCP stdio optional.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/prahastiwi/sdgdoc/crossref"
	"github.com/prahastiwi/sdgdoc/dbopen"
	"github.com/prahastiwi/sdgdoc/docpipe"
	"github.com/prahastiwi/sdgdoc/engine"
	"github.com/prahastiwi/sdgdoc/history"
	"github.com/prahastiwi/sdgdoc/rules"
	"github.com/prahastiwi/sdgdoc/webapi"
)

func main() {
	logLevel := env("LOG_LEVEL", "info")
	configPath := env("CONFIG", "")
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg := webapi.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = webapi.LoadConfig(configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("RULES_DIR"); v != "" {
		cfg.RulesDir = v
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Rule store — an empty store is fatal, a service with no rules cannot
	// classify anything.
	store, err := rules.Load(cfg.RulesDir, logger)
	if err != nil {
		slog.Error("load rules", "dir", cfg.RulesDir, "error", err)
		os.Exit(1)
	}
	eng, err := engine.New(store, logger)
	if err != nil {
		slog.Error("compile rules", "error", err)
		os.Exit(1)
	}

	// History DB.
	historyDB, err := dbopen.Open(cfg.HistoryDB, dbopen.WithMkdirAll(), dbopen.WithSchema(history.Schema))
	if err != nil {
		slog.Error("history db", "path", cfg.HistoryDB, "error", err)
		os.Exit(1)
	}
	defer historyDB.Close()

	pipeline := docpipe.New(docpipe.Config{
		MaxFileSize: cfg.MaxUploadBytes(),
		Logger:      logger,
	})

	opts := []webapi.Option{webapi.WithHistory(history.New(historyDB))}
	if cfg.Crossref.Enabled {
		opts = append(opts, webapi.WithEnricher(crossref.New(crossref.Config{
			BaseURL:   cfg.Crossref.BaseURL,
			UserAgent: cfg.Crossref.UserAgent,
			Timeout:   cfg.Crossref.Timeout(),
			Logger:    logger,
		})))
	}
	svc := webapi.New(pipeline, eng, store, logger, opts...)

	// MCP stdio mode: serve tools on stdin/stdout instead of HTTP.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "sdgdoc",
			Version: webapi.Version,
		}, nil)
		svc.RegisterMCP(mcpSrv)
		slog.Info("MCP stdio starting")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           svc.Routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.Listen, "categories", len(store.Categories()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
