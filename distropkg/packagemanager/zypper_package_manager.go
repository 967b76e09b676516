package packagemanager

import (
	"context"

	"github.com/sirupsen/logrus"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

type ZypperPackageManager struct {
	CommandManager cm.CommandManager
}

func (zpm *ZypperPackageManager) Install(ctx context.Context, names []string, opts InstallOptions) error {
	logrus.WithField("packages", names).Info("Installing with zypper")

	_, err := zpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "zypper",
		Sudo:    opts.Sudo,
		Args:    append([]string{"install", "--no-confirm"}, names...),
	})
	return err
}

func (zpm *ZypperPackageManager) Uninstall(ctx context.Context, names []string, opts UninstallOptions) error {
	logrus.WithField("packages", names).Info("Removing with zypper")

	_, err := zpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "zypper",
		Sudo:    opts.Sudo,
		Args:    append([]string{"remove", "--no-confirm"}, names...),
	})
	return err
}
