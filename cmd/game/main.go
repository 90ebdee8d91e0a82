package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/config"
	"github.com/tomz197/redlight/internal/loop/client"
	"github.com/tomz197/redlight/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := config.LogLevel(nil)
	if err != nil {
		return err
	}
	gameCfg, err := config.GameFromEnv()
	if err != nil {
		return err
	}

	// The game owns the terminal, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("REDLIGHT_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Prefix:          "redlight",
		Level:           level,
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewServer(logger)
	go hub.Run(ctx)

	c, err := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: os.Getenv("USER"),
		Term:     os.Getenv("TERM"),
		Game:     gameCfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}
