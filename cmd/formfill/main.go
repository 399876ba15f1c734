// Command formfill is the form autofill daemon.
//
// Usage:
//
//	formfill -url https://example.com/post          # fill a live page
//	formfill -audit https://example.com/post        # print a fill-surface audit and exit
//	formfill -config formfill.yaml -url <url>       # with a config file
//
// A running daemon exposes a loopback control API (-listen) and an MCP tool
// surface over stdio (-mcp).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/jawadgarzaldeen1/filling-sub001/autofill"
	"github.com/jawadgarzaldeen1/filling-sub001/control"
	"github.com/jawadgarzaldeen1/filling-sub001/dom/htmldoc"
	"github.com/jawadgarzaldeen1/filling-sub001/dom/roddoc"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/profile"
	"github.com/jawadgarzaldeen1/filling-sub001/report"
)

func main() {
	configPath := flag.String("config", "", "path to formfill.yaml config file")
	pageURL := flag.String("url", "", "fill a live page at this URL")
	auditURL := flag.String("audit", "", "audit the fill surface of a URL and exit")
	dbPath := flag.String("db", "", "profile database path (overrides config)")
	listen := flag.String("listen", "", "control API listen address, e.g. 127.0.0.1:8675")
	mcpStdio := flag.Bool("mcp", false, "serve MCP tools over stdio")
	remote := flag.String("remote", "", "websocket URL of an external chrome (default: launch one)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// A LevelVar so the engine can follow the profile's debug toggle.
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, lvl, *configPath, *pageURL, *auditURL, *dbPath, *listen, *remote, *mcpStdio); err != nil {
		logger.Error("formfill: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lvl *slog.LevelVar, configPath, pageURL, auditURL, dbPath, listen, remote string, mcpStdio bool) error {
	cfg := &autofill.Config{}
	if configPath != "" {
		var err error
		if cfg, err = autofill.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.LogLevel = lvl
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	if auditURL != "" {
		return runAudit(ctx, cfg, auditURL)
	}
	if pageURL == "" {
		fmt.Fprintln(os.Stderr, "usage: formfill -url <url> | -audit <url>")
		os.Exit(1)
	}
	return runFill(ctx, logger, cfg, pageURL, listen, remote, mcpStdio)
}

// runAudit fetches the page over plain HTTP and audits the parsed tree. No
// browser is involved, so script-built controls are invisible to it.
func runAudit(ctx context.Context, cfg *autofill.Config, pageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("audit: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audit: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("audit: read body: %w", err)
	}
	doc, err := htmldoc.ParseString(string(body))
	if err != nil {
		return fmt.Errorf("audit: parse: %w", err)
	}
	doc.SetOrigin(pageURL)

	set := fieldmap.Defaults()
	if cfg.SelectorsFile != "" {
		over, err := fieldmap.LoadFile(cfg.SelectorsFile)
		if err != nil {
			return fmt.Errorf("audit: selectors: %w", err)
		}
		set = set.Merge(over)
	}

	rep, err := report.New(set).Audit(doc)
	if err != nil {
		return err
	}
	fmt.Println(rep.Markdown)
	return nil
}

func runFill(ctx context.Context, logger *slog.Logger, cfg *autofill.Config, pageURL, listen, remote string, mcpStdio bool) error {
	store, err := profile.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	browser, err := roddoc.Launch(remote, logger)
	if err != nil {
		return err
	}
	defer browser.Close()

	doc, err := browser.Open(ctx, pageURL)
	if err != nil {
		return err
	}
	defer doc.Close()

	eng := autofill.New(cfg, store, logger)
	if err := eng.Start(ctx, doc); err != nil {
		return err
	}

	// Pick up profile edits made by other processes (settings UI, sync jobs).
	go store.WatchChanges(ctx, profile.WatchOptions{Logger: logger}, func() error {
		eng.Refresh(ctx)
		return nil
	})

	if listen != "" {
		srv := &http.Server{Addr: listen, Handler: control.New(eng, logger)}
		go func() {
			logger.Info("formfill: control API listening", "addr", listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("formfill: control API", "error", err)
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutCtx)
		}()
	}

	if mcpStdio {
		srv := mcp.NewServer(&mcp.Implementation{Name: "formfill", Version: "1.0.0"}, nil)
		eng.RegisterMCP(srv)
		logger.Info("formfill: MCP serving on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	<-ctx.Done()
	eng.Invalidate()
	return nil
}
