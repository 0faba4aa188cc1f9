package sso

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows the provider's sign-in page to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// CommandOpener launches the system browser.
type CommandOpener struct {
	Name string
	Args []string
}

// NewCommandOpener returns the opener for the running OS.
func NewCommandOpener() *CommandOpener {
	return commandFor(runtime.GOOS)
}

func commandFor(goos string) *CommandOpener {
	switch goos {
	case "darwin":
		return &CommandOpener{Name: "open"}
	case "windows":
		return &CommandOpener{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}}
	default:
		return &CommandOpener{Name: "xdg-open"}
	}
}

func (o *CommandOpener) Open(ctx context.Context, url string) error {
	args := append(append([]string(nil), o.Args...), url)
	cmd := exec.CommandContext(ctx, o.Name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
