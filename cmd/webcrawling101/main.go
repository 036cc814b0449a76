package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarcelloLins/WebCrawling101/cmd/webcrawling101/app"
	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{}

	clock := limiter.NewClock()

	err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, httpClient, clock)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
