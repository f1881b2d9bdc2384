package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"task-board-api/board"
)

func main() {
	apiURL := flag.String("api", envOr("TASKBOARD_API_URL", "http://localhost:3000/api"), "base URL of the task item API")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := board.Run(ctx, board.NewClient(*apiURL, nil)); err != nil {
		fmt.Fprintln(os.Stderr, "taskboard:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
