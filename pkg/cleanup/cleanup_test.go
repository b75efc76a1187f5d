package cleanup

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
)

func TestOnKill(t *testing.T) {
	callbacks = nil // Clear existing callbacks

	mockCallback := func(signal syscall.Signal) error {
		return nil
	}

	OnKill(mockCallback)
	if len(callbacks) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(callbacks))
	}
}

func TestExecute(t *testing.T) {
	callbacks = nil // Clear existing callbacks

	err1 := syscall.Errno(1)
	err2 := syscall.Errno(2)

	callbacks = append(callbacks, func(signal syscall.Signal) error {
		return err1
	})
	callbacks = append(callbacks, func(signal syscall.Signal) error {
		return err2
	})

	err := Execute(syscall.SIGTERM)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Fatalf("expected error to contain err1 and err2, got %v", err)
	}
}

func TestInitializeHandler(t *testing.T) {
	callbacks = nil // Clear existing callbacks

	ctx := context.Background()
	ctx = InitializeHandler(ctx)

	select {
	case <-ctx.Done():
		t.Fatal("context should not be done yet")
	default:
	}

	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("failed to find process: %v", err)
	}
	if proc == nil {
		t.Fatal("process is nil")
	}

	err = syscall.Kill(proc.Pid, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("failed to send SIGTERM: %v", err)
	}

	<-ctx.Done() // Should be done after signal
}
