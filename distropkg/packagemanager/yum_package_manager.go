package packagemanager

import (
	"context"

	"github.com/sirupsen/logrus"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

type YumPackageManager struct {
	CommandManager cm.CommandManager
}

// Install skips weak dependencies, the rpm counterpart of apt's recommends.
func (ypm *YumPackageManager) Install(ctx context.Context, names []string, opts InstallOptions) error {
	logrus.WithField("packages", names).Info("Installing with yum")

	_, err := ypm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "yum",
		Sudo:    opts.Sudo,
		Args:    append([]string{"install", "--assumeyes", "--setopt=install_weak_deps=False"}, names...),
	})
	return err
}

func (ypm *YumPackageManager) Uninstall(ctx context.Context, names []string, opts UninstallOptions) error {
	logrus.WithField("packages", names).Info("Removing with yum")

	_, err := ypm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "yum",
		Sudo:    opts.Sudo,
		Args:    append([]string{"remove", "--assumeyes"}, names...),
	})
	return err
}
