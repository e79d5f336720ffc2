// Package main provides the douyin-uploader command: log in to the Douyin
// creator portal once, then publish videos with the saved session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// run executes one command and closes the run's log file whether or not
// the command succeeded. On failure the log location is printed.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	if logger != nil {
		if err != nil && logger.LogPath() != "" {
			fmt.Fprintln(os.Stderr, hintStyle.Render("details: "+logger.LogPath()))
		}
		_ = logger.Close()
		logger = nil
	}
	return err
}
