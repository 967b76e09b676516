package host

import (
	"io"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	fm "github.com/steelcutops/distropkg/distropkg/filemanager"
	hm "github.com/steelcutops/distropkg/distropkg/hostmanager"
)

type HostOption func(*Host)

// WithUser returns a HostOption that sets the SSH user for a Host.
func WithUser(user string) HostOption {
	return func(host *Host) {
		host.User = user
	}
}

// WithPassword returns a HostOption that sets the SSH password for a Host.
func WithPassword(password string) HostOption {
	return func(host *Host) {
		host.Password = password
	}
}

// WithKeyPassphrase returns a HostOption that sets the key passphrase for a Host.
func WithKeyPassphrase(keyPassphrase string) HostOption {
	return func(host *Host) {
		host.KeyPassphrase = keyPassphrase
	}
}

// WithSudoPassword returns a HostOption that sets the sudo password for a Host.
func WithSudoPassword(password string) HostOption {
	return func(host *Host) {
		host.SudoPassword = password
	}
}

// WithKnownHosts returns a HostOption that verifies host keys against path.
func WithKnownHosts(path string) HostOption {
	return func(host *Host) {
		host.KnownHostsFile = path
	}
}

func WithSSHClient(client cm.SSHDialer) HostOption {
	return func(host *Host) {
		host.SSHClient = client
	}
}

// WithOSReleasePath reads os-release from path instead of /etc/os-release.
func WithOSReleasePath(path string) HostOption {
	return func(host *Host) {
		host.OSReleasePath = path
	}
}

func WithEnvironment(env em.EnvironmentManager) HostOption {
	return func(host *Host) {
		host.Environment = env
	}
}

// WithOutput sets where child output and dry-run reports go.
func WithOutput(stdout, stderr io.Writer) HostOption {
	return func(host *Host) {
		host.Stdout = stdout
		host.Stderr = stderr
	}
}

func WithCommandManager(commandManager cm.CommandManager) HostOption {
	return func(host *Host) {
		host.CommandManager = commandManager
	}
}

func WithFileManager(fileManager fm.FileManager) HostOption {
	return func(host *Host) {
		host.FileManager = fileManager
	}
}

func WithHostManager(hostManager hm.HostManager) HostOption {
	return func(host *Host) {
		host.HostManager = hostManager
	}
}
