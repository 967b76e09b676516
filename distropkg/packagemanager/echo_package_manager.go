package packagemanager

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// EchoPackageManager only reports what it would do. It backs dry runs and
// tests, and works on any platform.
type EchoPackageManager struct {
	Out io.Writer // defaults to os.Stdout
}

func (epm *EchoPackageManager) Install(_ context.Context, names []string, _ InstallOptions) error {
	_, err := fmt.Fprintf(epm.out(), "Would install: %s\n", strings.Join(names, ", "))
	return err
}

func (epm *EchoPackageManager) Uninstall(_ context.Context, names []string, _ UninstallOptions) error {
	_, err := fmt.Fprintf(epm.out(), "Would uninstall: %s\n", strings.Join(names, ", "))
	return err
}

func (epm *EchoPackageManager) out() io.Writer {
	if epm.Out != nil {
		return epm.Out
	}
	return os.Stdout
}
