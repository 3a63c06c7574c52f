package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps a command error to the process status. Runs that end with
// nothing to do have already said so through the notifier.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case common.IsNothingToDo(err):
		return 0
	case errors.Is(err, context.Canceled):
		return 1
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}
