package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cli.Options{Verbose: isVerbose()}

	root, closeFn, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		cli.RenderError(os.Stderr, err)
		return 1
	}
	defer closeFn()

	if err := root.ExecuteContext(ctx); err != nil {
		cli.RenderError(os.Stderr, err)
		if domain.IsFatal(err) {
			return 1
		}
	}
	return 0
}

func isVerbose() bool {
	value := os.Getenv(domain.DebugEnv)
	return strings.EqualFold(value, "1") || strings.EqualFold(value, "true")
}
