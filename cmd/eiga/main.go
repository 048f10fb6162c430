// Package main is the Eiga CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/cli"
	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/dispatch"
	"github.com/hyperjump/eiga/internal/engine"
	"github.com/hyperjump/eiga/internal/ingest"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/parser"
	"github.com/hyperjump/eiga/internal/server"
	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
	"github.com/hyperjump/eiga/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/eiga/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "parse":
		runParse()
	case "ingest":
		runIngest()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("eiga version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// An empty catalog answers nothing useful; load the dataset up front
	// when one is configured.
	if cfg.Data.Directory != "" {
		if stats, err := components.Store.Stats(context.Background()); err == nil && stats.MovieCount == 0 {
			summary, ingErr := components.Ingestor.Run(context.Background(), cfg.Data.Directory)
			if ingErr != nil {
				logger.Warn("initial ingest failed", zap.Error(ingErr))
			} else {
				logger.Info("initial ingest complete",
					zap.Int("movies", summary.Movies), zap.Int("ratings", summary.Ratings))
			}
		}
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watcher *ingest.Watcher
	if cfg.Data.Watch && cfg.Data.Directory != "" {
		watcher = ingest.NewWatcher(cfg.Data.Directory, func() {
			if _, err := components.Ingestor.Run(context.Background(), cfg.Data.Directory); err != nil {
				logger.Warn("re-ingest failed", zap.Error(err))
			}
		}, logger)
		if err := watcher.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start dataset watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Store,
		components.Titles,
		components.Ingestor,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watcher != nil {
		watcher.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQueryText joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQueryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	askArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use the catalog directly)")
	limit := fs.Int("limit", 0, "limit override on top of any parsed count")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: eiga ask [flags] <question>")
		os.Exit(1)
	}
	text := buildQueryText(fs.Args())
	if text == "" {
		fmt.Println("Usage: eiga ask [flags] <question>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req := models.AskRequest{Text: text, Limit: *limit}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a Bleve or
		// SQLite lock conflict with the server process).
		resp, err := askViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	resp, err := components.Engine.Ask(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL string, req models.AskRequest) (*models.AskResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/answer", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runParse() {
	parseArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(parseArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: eiga parse [flags] <question>")
		os.Exit(1)
	}
	text := buildQueryText(fs.Args())
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// Parsing needs no store; build the parser straight from config.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		// Parsing still works with pure defaults when no config exists.
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	p := parser.New(cfg.Vocab, cfg.Pipeline)
	resp := models.ParseResponse{Parsed: p.Parse(text)}
	if err := cli.WriteParse(os.Stdout, &resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dataDir := fs.String("data", "", "dataset directory (default: data.directory from config)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	dir := *dataDir
	if dir == "" && fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	if dir == "" {
		dir = cfg.Data.Directory
	}
	if dir == "" {
		fmt.Println("No dataset directory: pass --data or set data.directory in config")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	summary, err := components.Ingestor.Run(context.Background(), dir)
	if err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d movies and %d ratings from %s in %s\n",
		summary.Movies, summary.Ratings, dir, summary.Duration)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use the catalog directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		stats, err := components.Store.Stats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Catalog stats failed: %v\n", err)
			os.Exit(1)
		}
		status = map[string]interface{}{"catalog": stats}
		if count, err := components.Titles.DocCount(); err == nil {
			status["indexed_titles"] = count
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if catalog, ok := status["catalog"].(map[string]interface{}); ok {
			printCatalogText(catalog)
		} else if stats, ok := status["catalog"].(*models.CatalogStats); ok {
			fmt.Printf("movies:   %d\n", stats.MovieCount)
			fmt.Printf("ratings:  %d\n", stats.RatingCount)
			if stats.MostRatedTitle != "" {
				fmt.Printf("most rated: %s (%d ratings)\n", stats.MostRatedTitle, stats.MostRatedCount)
			}
		}
		if titles, ok := status["indexed_titles"]; ok {
			fmt.Printf("indexed titles: %v\n", titles)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func printCatalogText(catalog map[string]interface{}) {
	fmt.Printf("movies:   %v\n", catalog["movie_count"])
	fmt.Printf("ratings:  %v\n", catalog["rating_count"])
	if title, ok := catalog["most_rated_title"]; ok && title != "" {
		fmt.Printf("most rated: %v (%v ratings)\n", title, catalog["most_rated_count"])
	}
}

func statusViaHTTP(serverURL string) (map[string]interface{}, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return s, nil
}

// Components holds initialized services.
type Components struct {
	Store    store.Store
	Titles   *titleindex.TitleIndex
	Engine   *engine.Engine
	Ingestor *ingest.Ingestor
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Titles != nil {
		_ = c.Titles.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog store: %w", err)
	}

	titles, err := titleindex.NewTitleIndex(cfg.Storage.TitleIndexPath)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize title index: %w", err)
	}
	// Rebuild the suggestion snapshot from whatever the catalog already
	// holds; a fresh index fills on the next ingest.
	if entries, err := st.Titles(context.Background()); err == nil && len(entries) > 0 {
		if err := titles.Build(context.Background(), entries); err != nil {
			logger.Warn("title index build failed", zap.Error(err))
		}
	}

	p := parser.New(cfg.Vocab, cfg.Pipeline)
	d := dispatch.New(st, titles, cfg.Pipeline, logger)
	eng := engine.New(p, d, cfg.Pipeline, logger)
	ingestor := ingest.NewIngestor(st, titles, logger)

	return &Components{
		Store:    st,
		Titles:   titles,
		Engine:   eng,
		Ingestor: ingestor,
	}, nil
}

func printUsage() {
	fmt.Println(`eiga - natural-language movie catalog answering

Usage:
  eiga server [flags]           Start the HTTP server
  eiga ask [flags] <question>   Ask a free-form movie question
  eiga parse [flags] <question> Show the parsed intent and slots only
  eiga ingest [flags]           Load the dataset into the catalog
  eiga status [flags]           Show catalog status
  eiga version                  Show version
  eiga help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/eiga/config.yaml)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path (for direct catalog mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to read the catalog directly.
  --limit int        Limit override on top of any parsed count
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path
  --data string      Dataset directory (default: data.directory from config)

Status Flags:
  --config string    Config file path (for direct catalog mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct catalog access.
  --output string    Output format: text or json (default: text)

Examples:
  eiga server
  eiga ask "top 5 action movies since 1997 with rating at least 3"
  eiga ask --output json "movies like GoldenEye"
  eiga parse "tell me about Toy Story"
  eiga ingest --data ./data/ml-100k
  eiga status`)
}
