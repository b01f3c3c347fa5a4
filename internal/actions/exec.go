package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrActionFailed wraps every external action failure. Recoverable by
// design: the router turns it into a "that didn't work" response.
var ErrActionFailed = errors.New("external action failed")

const (
	shortTimeout  = 2 * time.Second
	mediumTimeout = 5 * time.Second
)

// runCommand executes a short-lived external command and returns its
// trimmed stdout. All failure shapes collapse into ErrActionFailed.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			// exec.CommandContext may surface "signal: killed" instead of context cancellation.
			return "", fmt.Errorf("%w: %s: %v", ErrActionFailed, name, ctx.Err())
		}
		errText := strings.TrimSpace(stderr.String())
		if errText == "" {
			errText = err.Error()
		}
		return "", fmt.Errorf("%w: %s: %s", ErrActionFailed, name, errText)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// startCommand launches a long-lived process without waiting for it
// (app launches outlive the command turn). The child is released so it
// never becomes a zombie owned by the assistant.
func startCommand(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrActionFailed, name, err)
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

// commandExists checks PATH for a binary.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp"
	}
	return home
}
