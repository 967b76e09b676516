package host

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	fm "github.com/steelcutops/distropkg/distropkg/filemanager"
	hm "github.com/steelcutops/distropkg/distropkg/hostmanager"
	"github.com/steelcutops/distropkg/distropkg/osrelease"
	pm "github.com/steelcutops/distropkg/distropkg/packagemanager"
)

// PackageManagerEnv forces a package manager family. Only "echo" is honoured.
const PackageManagerEnv = "PACKAGE_MANAGER"

// NewHost detects the distribution of hostname and picks its package
// manager. Detection runs on every call; nothing is cached.
//
// A PACKAGE_MANAGER=echo override short-circuits detection, so it works on
// any platform. Otherwise the host must run Linux and its os-release ID must
// belong to a known family.
func NewHost(ctx context.Context, hostname string, options ...HostOption) (*Host, error) {
	h := &Host{Hostname: hostname}

	for _, option := range options {
		option(h)
	}

	configureManagers(h)

	family, err := detectFamily(ctx, h)
	if err != nil {
		return nil, err
	}

	pkgManager, err := pm.New(family, h.CommandManager, h.stdout())
	if err != nil {
		return nil, err
	}

	h.Family = family
	h.PackageManager = pkgManager
	h.logger().Debug("Package manager selected")

	return h, nil
}

// configureManagers fills in whatever the options left unset.
func configureManagers(h *Host) {
	if h.OSReleasePath == "" {
		h.OSReleasePath = osrelease.DefaultPath
	}
	if h.Environment == nil {
		h.Environment = em.OSEnvironmentManager{}
	}
	local := cm.IsLocalHostname(h.Hostname)
	if h.SSHClient == nil && !local {
		h.SSHClient = cm.RealSSHClient{}
	}
	if h.CommandManager == nil {
		h.CommandManager = &cm.UnixCommandManager{
			Hostname:    h.Hostname,
			SSHClient:   h.SSHClient,
			Credentials: h.Credentials,
			Stdout:      h.Stdout,
			Stderr:      h.Stderr,
		}
	}
	if h.FileManager == nil {
		if local {
			h.FileManager = fm.LocalFileManager{}
		} else {
			h.FileManager = &fm.UnixFileManager{CommandManager: h.CommandManager}
		}
	}
	if h.HostManager == nil {
		if local {
			h.HostManager = hm.LocalHostManager{}
		} else {
			h.HostManager = &hm.UnixHostManager{CommandManager: h.CommandManager}
		}
	}
}

func detectFamily(ctx context.Context, h *Host) (pm.Family, error) {
	if em.Get(h.Environment, PackageManagerEnv) == string(pm.Echo) {
		logrus.WithField("host", h.Hostname).Debug("PACKAGE_MANAGER=echo, skipping detection")
		return pm.Echo, nil
	}

	platform, err := h.HostManager.Platform(ctx)
	if err != nil {
		return "", fmt.Errorf("could not determine platform of %s: %w", h.Hostname, err)
	}
	if err := osrelease.CheckPlatform(platform); err != nil {
		return "", err
	}
	h.Platform = platform

	// Only informational, an address often differs from the machine's name.
	if name, err := h.HostManager.Hostname(ctx); err != nil {
		logrus.WithField("host", h.Hostname).WithError(err).Debug("Could not read hostname")
	} else {
		h.ReportedHostname = name
	}

	data, err := h.FileManager.ReadFile(ctx, h.OSReleasePath)
	if err != nil {
		return "", err
	}

	osRelease, err := osrelease.Parse(data, h.OSReleasePath)
	if err != nil {
		return "", err
	}
	h.OSRelease = osRelease

	return pm.FamilyForID(osRelease.ID())
}
