// Package main is the entry point for shopify-wave-sync CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/cmd/shopify-wave-sync/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
