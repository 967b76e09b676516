package packagemanager

import (
	"context"

	"github.com/sirupsen/logrus"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

type AptPackageManager struct {
	CommandManager cm.CommandManager
}

// Install refreshes the package index, then installs names without
// recommended packages.
func (apm *AptPackageManager) Install(ctx context.Context, names []string, opts InstallOptions) error {
	logrus.WithField("packages", names).Info("Installing with apt-get")

	_, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-get",
		Sudo:    opts.Sudo,
		Env:     aptEnv,
		Args:    []string{"update"},
	})
	if err != nil {
		return err
	}

	_, err = apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-get",
		Sudo:    opts.Sudo,
		Env:     aptEnv,
		Args:    append([]string{"install", "--yes", "--no-install-recommends"}, names...),
	})
	return err
}

func (apm *AptPackageManager) Uninstall(ctx context.Context, names []string, opts UninstallOptions) error {
	logrus.WithField("packages", names).Info("Removing with apt-get")

	_, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-get",
		Sudo:    opts.Sudo,
		Env:     aptEnv,
		Args:    append([]string{"remove", "--yes"}, names...),
	})
	return err
}
