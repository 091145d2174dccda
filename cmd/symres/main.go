package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/pkg/cli"
)

// Version is set at build time using: -ldflags "-X main.Version=v1.2.3"
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(Version).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrFailed) {
			fmt.Fprintln(os.Stderr, "symres:", err)
		}
		stop()
		os.Exit(1)
	}
}
