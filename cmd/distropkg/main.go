package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steelcutops/distropkg/distropkg/bootstrap"
	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
)

const defaultConcurrency = 10

type flags struct {
	Concurrency        int
	ConfigPath         string
	Debug              bool
	Hostnames          []string
	KeyPassPrompt      bool
	KnownHostsFile     string
	LogFileName        string
	OSReleasePath      string
	PackageManager     string
	PasswordPrompt     bool
	SudoPasswordPrompt bool
	Username           string
}

type app struct {
	root   *cobra.Command
	flags  *flags
	config *config
	env    em.EnvironmentManager
	stdout io.Writer
	stderr io.Writer
}

var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{
		flags:  &flags{},
		env:    em.OSEnvironmentManager{},
		stdout: stdout,
		stderr: stderr,
	}

	a.root = &cobra.Command{
		Use:   "distropkg",
		Short: "Install packages with the distribution's own package manager",
		Long: `distropkg reads /etc/os-release, picks apt-get, yum or zypper for the
distribution it finds and runs it. Set PACKAGE_MANAGER=echo (or pass
--package-manager echo) to print what would be done instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)

	f := a.flags
	pf := a.root.PersistentFlags()
	pf.BoolVar(&f.Debug, "debug", false, "Enable debug log level")
	pf.StringVar(&f.LogFileName, "log", "", "Also write logs to this file")
	pf.StringVar(&f.ConfigPath, "config", "", "Path to INI file with defaults and host groups")
	pf.StringArrayVar(&f.Hostnames, "hostname", nil, "Hostname to manage (repeatable, default localhost)")
	pf.StringVar(&f.Username, "username", "", "Username to use for SSH connection")
	pf.BoolVar(&f.PasswordPrompt, "password", false, "Prompt for the SSH password")
	pf.BoolVar(&f.KeyPassPrompt, "keypass", false, "Prompt for the passphrase of SSH keys")
	pf.BoolVar(&f.SudoPasswordPrompt, "sudo-password", false, "Prompt for the sudo password")
	pf.StringVar(&f.KnownHostsFile, "known-hosts", "", "known_hosts file to verify SSH host keys against")
	pf.IntVar(&f.Concurrency, "concurrency", defaultConcurrency, "Maximum number of hosts handled at once")
	pf.StringVar(&f.PackageManager, "package-manager", "", "Force a package manager (only \"echo\" is supported)")
	pf.StringVar(&f.OSReleasePath, "os-release", "", "Path of the os-release file on each host")

	a.root.AddCommand(
		a.newInstallCmd(),
		a.newUninstallCmd(),
		a.newDetectCmd(),
	)

	return a
}

// Execute runs the CLI with args, cancelling on SIGINT or SIGTERM.
func (a *app) Execute(ctx context.Context, args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

// setup configures logging and folds the config file into unset flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.configureLogger(); err != nil {
		return err
	}

	cfg, err := loadConfig(a.flags.ConfigPath)
	if err != nil {
		return err
	}
	a.config = cfg

	changed := cmd.Flags().Changed
	if !changed("concurrency") {
		a.flags.Concurrency = cfg.Concurrency
	}
	if !changed("username") {
		a.flags.Username = cfg.Username
	}
	if !changed("os-release") {
		a.flags.OSReleasePath = cfg.OSReleasePath
	}
	return nil
}

func (a *app) configureLogger() error {
	logrus.SetOutput(a.stderr)
	if a.flags.LogFileName != "" {
		file, err := os.OpenFile(a.flags.LogFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		logrus.SetOutput(io.MultiWriter(a.stderr, file))
	}

	if a.flags.Debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debug("Debug mode enabled")
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.stderr, "Enter the %s: ", label)
	secret, err := readPassword()
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return string(secret), nil
}

func main() {
	a := newApp(os.Stdout, os.Stderr)
	os.Exit(bootstrap.Run(func() error {
		return a.Execute(context.Background(), os.Args[1:])
	}))
}
