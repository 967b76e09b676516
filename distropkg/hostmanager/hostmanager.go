package hostmanager

import (
	"context"
	"os"
	"runtime"
	"strings"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

// HostManager answers questions about the machine commands run on.
type HostManager interface {
	// Platform returns the operating system in runtime.GOOS spelling, e.g. "linux".
	Platform(ctx context.Context) (string, error)
	Hostname(ctx context.Context) (string, error)
}

// LocalHostManager describes this machine.
type LocalHostManager struct{}

func (LocalHostManager) Platform(context.Context) (string, error) {
	return runtime.GOOS, nil
}

func (LocalHostManager) Hostname(context.Context) (string, error) {
	return os.Hostname()
}

// UnixHostManager probes a host with uname and hostname.
type UnixHostManager struct {
	CommandManager cm.CommandManager
}

func (uhm *UnixHostManager) Platform(ctx context.Context) (string, error) {
	output, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "uname",
		Args:    []string{"-s"},
		Quiet:   true,
	})
	if err != nil {
		return "", err
	}

	// uname says "Linux", "Darwin", "FreeBSD"...
	return strings.ToLower(strings.TrimSpace(output.STDOUT)), nil
}

func (uhm *UnixHostManager) Hostname(ctx context.Context) (string, error) {
	output, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "hostname",
		Quiet:   true,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(output.STDOUT), nil
}
