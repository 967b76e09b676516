package commandmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	sshPort            = "22"
	defaultDialTimeout = 15 * time.Minute
	maxDialRetries     = 2
)

type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error)
}

// RealSSHClient dials with golang.org/x/crypto/ssh.
type RealSSHClient struct{}

func (RealSSHClient) Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	c := *config
	c.Timeout = timeout
	return ssh.Dial(network, addr, &c)
}

// UnixCommandManager runs commands on the local machine, or over SSH when
// Hostname names another machine. Child output is relayed to Stdout and
// Stderr line by line, prefixed with "[<command>] ".
type UnixCommandManager struct {
	Hostname  string
	SSHClient SSHDialer
	Credentials

	Stdout io.Writer
	Stderr io.Writer

	// KeyManager defaults to the agent, or to key files when a passphrase is set.
	KeyManager SSHKeyManager
	// DialBackOff controls SSH dial retries; commands themselves are never retried.
	DialBackOff backoff.BackOff
}

func (u *UnixCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	if u.IsLocal() {
		logrus.WithFields(logrus.Fields{"host": u.Hostname, "command": config.Command}).Debug("Running local command")
		return u.RunLocal(ctx, config)
	}

	logrus.WithFields(logrus.Fields{"host": u.Hostname, "command": config.Command}).Debug("Running remote command")
	return u.RunRemote(ctx, config)
}

// IsLocal reports whether commands run on this machine.
func (u *UnixCommandManager) IsLocal() bool {
	return IsLocalHostname(u.Hostname)
}

// IsLocalHostname reports whether hostname refers to this machine.
func IsLocalHostname(hostname string) bool {
	return hostname == "" || hostname == "localhost" || hostname == "127.0.0.1"
}

func (u *UnixCommandManager) RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error) {
	start := time.Now()
	argv := config.Argv(u.sudoFlags(config)...)
	logrus.WithField("argv", shellescape.QuoteCommand(argv)).Debug("Executing")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}
	if config.Sudo && u.SudoPassword != "" {
		cmd.Stdin = strings.NewReader(u.SudoPassword + "\n")
	}

	var stdout, stderr strings.Builder
	outRelay, errRelay := u.relays(config)
	cmd.Stdout = io.MultiWriter(&stdout, outRelay)
	cmd.Stderr = io.MultiWriter(&stderr, errRelay)

	err := cmd.Run()
	_ = outRelay.Flush()
	_ = errRelay.Flush()

	result := CommandResult{
		Command:   strings.Join(argv, " "),
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}

	return result, checkResult(config, result, err)
}

func (u *UnixCommandManager) RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error) {
	if u.SSHClient == nil {
		return CommandResult{}, errors.New("SSHClient is not initialized")
	}

	sshConfig, closeKeys, err := u.getSSHConfig()
	if err != nil {
		return CommandResult{}, err
	}

	client, err := u.dial(ctx, sshConfig)
	closeKeys()
	if err != nil {
		return CommandResult{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandResult{}, err
	}
	defer session.Close()

	cmdStr := remoteCommand(config, u.sudoFlags(config))
	if config.Sudo && u.SudoPassword != "" {
		session.Stdin = strings.NewReader(u.SudoPassword + "\n")
	}

	var stdout, stderr strings.Builder
	outRelay, errRelay := u.relays(config)
	session.Stdout = io.MultiWriter(&stdout, outRelay)
	session.Stderr = io.MultiWriter(&stderr, errRelay)

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmdStr)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		logrus.WithFields(logrus.Fields{"host": u.Hostname, "command": cmdStr}).Error("Remote command cancelled")
		return CommandResult{Command: cmdStr, Timestamp: start}, ctx.Err()
	}
	_ = outRelay.Flush()
	_ = errRelay.Flush()

	result := CommandResult{
		Command:   cmdStr,
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}

	return result, checkResult(config, result, err)
}

func (u *UnixCommandManager) dial(ctx context.Context, sshConfig *ssh.ClientConfig) (*ssh.Client, error) {
	dialTimeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		dialTimeout = time.Until(deadline)
		if dialTimeout <= 0 {
			return nil, fmt.Errorf("failed to connect to %s: %w", u.Hostname, context.DeadlineExceeded)
		}
	}

	b := u.DialBackOff
	if b == nil {
		b = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxDialRetries)
	}

	addr := net.JoinHostPort(u.Hostname, sshPort)
	client, err := backoff.RetryNotifyWithData[*ssh.Client](func() (*ssh.Client, error) {
		client, err := u.SSHClient.Dial("tcp", addr, sshConfig, dialTimeout)
		if err != nil && isPermanentDialError(err) {
			return nil, backoff.Permanent(err)
		}
		return client, err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logrus.WithFields(logrus.Fields{"host": u.Hostname, "retry_in": wait}).Warnf("SSH dial failed: %v", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return client, nil
}

// isPermanentDialError reports dial failures that retrying cannot fix:
// rejected host keys and rejected credentials.
func isPermanentDialError(err error) bool {
	var keyErr *knownhosts.KeyError
	var revokedErr *knownhosts.RevokedError
	if errors.As(err, &keyErr) || errors.As(err, &revokedErr) {
		return true
	}
	return strings.Contains(err.Error(), "unable to authenticate")
}

// getSSHConfig also returns a func releasing whatever the key manager holds
// open; call it once the connection is established.
func (u *UnixCommandManager) getSSHConfig() (*ssh.ClientConfig, func(), error) {
	var authMethod ssh.AuthMethod
	closeKeys := func() {}

	if u.Password != "" {
		logrus.WithField("host", u.Hostname).Debug("Using password authentication")
		authMethod = ssh.Password(u.Password)
	} else {
		logrus.WithField("host", u.Hostname).Debug("Using public key authentication")
		keyManager := u.KeyManager
		if keyManager == nil {
			if u.KeyPassphrase != "" {
				keyManager = FileSSHKeyManager{}
			} else {
				keyManager = &AgentSSHKeyManager{}
			}
		}

		keys, err := keyManager.ReadPrivateKeys(u.KeyPassphrase)
		if err != nil {
			return nil, nil, err
		}
		if closer, ok := keyManager.(io.Closer); ok {
			closeKeys = func() { _ = closer.Close() }
		}

		authMethod = ssh.PublicKeys(keys...)
	}

	username := u.User
	if username == "" {
		current, err := user.Current()
		if err != nil {
			closeKeys()
			return nil, nil, fmt.Errorf("could not get current user: %w", err)
		}
		username = current.Username
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if u.KnownHostsFile != "" {
		cb, err := knownhosts.New(u.KnownHostsFile)
		if err != nil {
			closeKeys()
			return nil, nil, fmt.Errorf("could not load known hosts: %w", err)
		}
		hostKeyCallback = cb
	} else {
		logrus.WithField("host", u.Hostname).Warn("No known_hosts file given, host key will not be verified")
	}

	return &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{authMethod},
		HostKeyCallback: hostKeyCallback,
	}, closeKeys, nil
}

func (u *UnixCommandManager) sudoFlags(config CommandConfig) []string {
	if config.Sudo && u.SudoPassword != "" {
		return []string{"-S"}
	}
	return nil
}

func (u *UnixCommandManager) stdout() io.Writer {
	if u.Stdout != nil {
		return u.Stdout
	}
	return os.Stdout
}

func (u *UnixCommandManager) stderr() io.Writer {
	if u.Stderr != nil {
		return u.Stderr
	}
	return os.Stderr
}

func (u *UnixCommandManager) relays(config CommandConfig) (out, errOut *prefixWriter) {
	if config.Quiet {
		return newPrefixWriter(io.Discard, ""), newPrefixWriter(io.Discard, "")
	}
	prefix := "[" + config.Command + "] "
	return newPrefixWriter(u.stdout(), prefix), newPrefixWriter(u.stderr(), prefix)
}

// remoteCommand renders config as a single shell-quoted command line. The
// environment goes through env(1) so it survives sudo.
func remoteCommand(config CommandConfig, sudoFlags []string) string {
	argv := append([]string{config.Command}, config.Args...)
	if len(config.Env) > 0 {
		argv = append(append([]string{"env"}, config.Env...), argv...)
	}
	if config.Sudo {
		argv = append(append([]string{"sudo"}, sudoFlags...), argv...)
	}
	return shellescape.QuoteCommand(argv)
}

// checkResult turns a finished command into an error. Only a non-zero exit
// (or a failure to start) is an error; sudo's own complaints are named when
// the command ran under sudo.
func checkResult(config CommandConfig, result CommandResult, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	var sshExitErr *ssh.ExitError
	if !errors.As(err, &exitErr) && !errors.As(err, &sshExitErr) {
		return fmt.Errorf("failed to run %q: %w", result.Command, err)
	}

	cmdErr := &CommandError{Command: result.Command, ExitCode: result.ExitCode}
	if config.Sudo {
		output := result.STDERR + result.STDOUT
		switch {
		case strings.Contains(output, "incorrect password"):
			return fmt.Errorf("sudo: incorrect password provided: %w", cmdErr)
		case strings.Contains(output, "is not in the sudoers file"):
			return fmt.Errorf("sudo: user is not in the sudoers file: %w", cmdErr)
		}
	}
	return cmdErr
}

func getExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var sshExitErr *ssh.ExitError
	if errors.As(err, &sshExitErr) {
		return sshExitErr.ExitStatus()
	}
	return 0
}
