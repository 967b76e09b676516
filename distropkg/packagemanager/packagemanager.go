package packagemanager

import "context"

// InstallOptions tweaks an install.
type InstallOptions struct {
	// Sudo prefixes every command with sudo.
	Sudo bool
}

// UninstallOptions tweaks an uninstall.
type UninstallOptions struct {
	// Sudo prefixes every command with sudo.
	Sudo bool
}

// PackageManager installs and removes packages with a distribution's native tool.
// Implementations hold no state between calls.
type PackageManager interface {
	Install(ctx context.Context, names []string, opts InstallOptions) error
	Uninstall(ctx context.Context, names []string, opts UninstallOptions) error
}
