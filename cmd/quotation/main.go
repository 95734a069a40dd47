package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

func getVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return info.Main.Version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, closeApp := newRootCommand(os.LookupEnv, os.Stdin, os.Stdout, os.Stderr)
	err := errors.Join(cmd.ExecuteContext(ctx), closeApp())
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		}
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
