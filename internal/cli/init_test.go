package cli

import (
	"context"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestGracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(logger, 5*time.Second, func(shutdownCtx context.Context) {
		if shutdownCtx.Err() != nil {
			t.Error("cleanup context already expired")
		}
		close(cleaned)
	})

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before any signal")
	default:
	}

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("sending SIGTERM: %v", err)
	}

	waitDone := make(chan struct{})
	go func() {
		WaitForShutdown(ctx, done)
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete after SIGTERM")
	}

	select {
	case <-cleaned:
	default:
		t.Error("cleanup never ran")
	}
}
