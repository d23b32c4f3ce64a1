package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"browserdap/internal/chrome"
	"browserdap/internal/config"
	"browserdap/internal/dap"
	"browserdap/internal/launcher"
	ilog "browserdap/internal/log"
	"browserdap/internal/mcp"
	"browserdap/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	mode := flag.String("mode", "mcp", "Front end: 'dap' (IDE over stdio) or 'mcp' (MCP tools over stdio)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	help := flag.Bool("help", false, "Show help and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("browserdap version %s\n", version.Version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := ilog.Init(ilog.Options{
		Level:   cfg.Log.Level,
		Writers: cfg.Log.Writers,
		File:    cfg.Log.File,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	version.NotifyAsync()

	switch *mode {
	case "dap":
		runDAP(cfg)
	case "mcp":
		runMCP(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q, expected 'dap' or 'mcp'\n", *mode)
		os.Exit(1)
	}
}

// runDAP serves one adapter session to an IDE over stdio.
func runDAP(cfg *config.Config) {
	conn := chrome.NewCDPConnectionWithRetry(cfg.Connection.RetryInterval, cfg.Connection.AttachRetries)
	orch := launcher.New(cfg, conn, launcher.NewExecLauncher())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ilog.L().Info().Msg("shutting down")
		_ = orch.Dispose()
		cancel()
	}()

	server := dap.NewServer(dap.NewStdioTransport(os.Stdin, os.Stdout), orch)
	ilog.L().Info().Str("version", version.Version).Msg("browserdap DAP session starting")
	if err := server.Serve(ctx); err != nil {
		_ = orch.Dispose()
		ilog.L().Error().Err(err).Msg("session error")
		os.Exit(1)
	}
	_ = orch.Dispose()
}

// runMCP serves the MCP tool surface over stdio.
func runMCP(cfg *config.Config) {
	server := mcp.NewServer(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ilog.L().Info().Msg("shutting down")
		server.Close()
		os.Exit(0)
	}()

	ilog.L().Info().Str("version", version.Version).Msg("browserdap MCP server starting")
	if err := server.ServeStdio(); err != nil {
		server.Close()
		ilog.L().Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	server.Close()
}

func printHelp() {
	fmt.Println(`browserdap: browser debug bridge

Connects an IDE's Debug Adapter Protocol front end, or an MCP client,
to a Chromium-family browser's remote-debugging endpoint. Handles
launching the browser with debugging enabled, attaching to running
browsers, and resolving source-map path overrides.

USAGE:
    browserdap [OPTIONS]

OPTIONS:
    -config <path>     Path to configuration file (JSON)
    -mode <mode>       Front end: 'dap' or 'mcp' (default: mcp)
    -version           Show version and exit
    -help              Show this help message

CONFIGURATION:
    {
        "browser": {
            "executablePath": "",
            "extraSearchPaths": [],
            "defaultPort": 9222,
            "spawnHelper": "",
            "landingPage": "landingPage.html"
        },
        "connection": {
            "host": "127.0.0.1",
            "attachRetries": 20,
            "retryInterval": 200000000,
            "attachTimeout": 10000000000
        },
        "log": {
            "level": "info",
            "writer": ["console"],
            "file": ""
        },
        "maxSessions": 4
    }

MCP TOOLS:
    browser_launch          Launch a browser with remote debugging and attach
    browser_attach          Attach to a running browser
    browser_status          Report session state and path overrides
    browser_list_sessions   List active sessions
    browser_disconnect      Tear a session down`)
}
