package host

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	fm "github.com/steelcutops/distropkg/distropkg/filemanager"
	hm "github.com/steelcutops/distropkg/distropkg/hostmanager"
	"github.com/steelcutops/distropkg/distropkg/osrelease"
	pm "github.com/steelcutops/distropkg/distropkg/packagemanager"
)

// Host is a machine whose distribution has been detected and whose native
// package manager has been picked.
type Host struct {
	Hostname string
	cm.Credentials
	SSHClient     cm.SSHDialer
	OSReleasePath string
	Stdout        io.Writer
	Stderr        io.Writer

	Environment    em.EnvironmentManager
	CommandManager cm.CommandManager
	FileManager    fm.FileManager
	HostManager    hm.HostManager

	// Filled in by detection. ReportedHostname, Platform and OSRelease
	// stay empty in echo mode.
	ReportedHostname string
	Platform         string
	OSRelease        osrelease.OSRelease
	Family           pm.Family
	PackageManager   pm.PackageManager
}

// Info is what detection found out about a host.
type Info struct {
	Hostname         string              `json:"hostname" yaml:"hostname"`
	ReportedHostname string              `json:"reportedHostname,omitempty" yaml:"reportedHostname,omitempty"`
	Platform         string              `json:"platform,omitempty" yaml:"platform,omitempty"`
	Family           pm.Family           `json:"family" yaml:"family"`
	OSRelease        osrelease.OSRelease `json:"osRelease,omitempty" yaml:"osRelease,omitempty"`
}

func (h *Host) Info() Info {
	return Info{
		Hostname:         h.Hostname,
		ReportedHostname: h.ReportedHostname,
		Platform:         h.Platform,
		Family:           h.Family,
		OSRelease:        h.OSRelease,
	}
}

// Install installs names with the host's package manager.
func (h *Host) Install(ctx context.Context, names []string, opts pm.InstallOptions) error {
	h.logger().WithField("packages", names).Debug("Install requested")
	return h.PackageManager.Install(ctx, names, opts)
}

// Uninstall removes names with the host's package manager.
func (h *Host) Uninstall(ctx context.Context, names []string, opts pm.UninstallOptions) error {
	h.logger().WithField("packages", names).Debug("Uninstall requested")
	return h.PackageManager.Uninstall(ctx, names, opts)
}

func (h *Host) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"host": h.Hostname, "family": h.Family})
}

func (h *Host) stdout() io.Writer {
	if h.Stdout != nil {
		return h.Stdout
	}
	return os.Stdout
}
