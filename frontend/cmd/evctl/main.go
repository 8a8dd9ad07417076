package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"evcharging/frontend/internal/api"
	"evcharging/frontend/internal/cli"
	"evcharging/frontend/internal/session"
)

var (
	// Version is set via ldflags during build.
	Version = "dev"
)

const defaultServer = "http://localhost:3001/api"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOr("EVCTL_SERVER", defaultServer), "API base URL")
	sessionPath := flag.String("session", defaultSessionPath(), "Path to the local session file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("evctl %s\n", Version)
		return
	}

	terminal := cli.NewStdio()
	args := flag.Args()

	store, err := session.Open(*sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session store: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(terminal, api.NewClient(*serverURL, nil), store)
	if len(args) == 0 {
		c.PrintUsage()
		_ = store.Close()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := c.Run(ctx, args[0], args[1:])
	stop()

	if err := store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close session store: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "evctl-session.db"
	}
	return filepath.Join(dir, "evctl", "session.db")
}
