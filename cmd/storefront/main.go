// Command storefront serves the web storefront and hosts the terminal
// browser.
//
//	storefront serve  [--config storefront.toml] [--addr :3000]
//	storefront browse [--query sort=top-rated]
//	storefront version
//
// The backend base URL comes from the config file or API_BASE_URL
// (NEXT_PUBLIC_API_BASE_URL is accepted as a fallback).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
