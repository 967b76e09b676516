// Package distropkg installs and removes packages with whatever package
// manager the running Linux distribution ships.
//
//	err := distropkg.Install(ctx, packagemanager.InstallOptions{Sudo: true}, "jq")
//
// The distribution is detected from /etc/os-release on every call. Setting
// PACKAGE_MANAGER=echo prints what would be done instead.
package distropkg

import (
	"context"
	"errors"

	"github.com/steelcutops/distropkg/distropkg/host"
	pm "github.com/steelcutops/distropkg/distropkg/packagemanager"
)

var ErrNoPackages = errors.New("no packages given")

var newHost = func(ctx context.Context) (*host.Host, error) {
	return host.NewHost(ctx, "localhost")
}

// Install installs names on this machine.
func Install(ctx context.Context, opts pm.InstallOptions, names ...string) error {
	if len(names) == 0 {
		return ErrNoPackages
	}
	h, err := newHost(ctx)
	if err != nil {
		return err
	}
	return h.Install(ctx, names, opts)
}

// Uninstall removes names from this machine.
func Uninstall(ctx context.Context, opts pm.UninstallOptions, names ...string) error {
	if len(names) == 0 {
		return ErrNoPackages
	}
	h, err := newHost(ctx)
	if err != nil {
		return err
	}
	return h.Uninstall(ctx, names, opts)
}
