package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	"github.com/steelcutops/distropkg/distropkg/host"
	"github.com/steelcutops/distropkg/distropkg/hostgroup"
	pm "github.com/steelcutops/distropkg/distropkg/packagemanager"
)

func (a *app) newInstallCmd() *cobra.Command {
	var sudo bool

	cmd := &cobra.Command{
		Use:   "install <package>...",
		Short: "Install packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			opts := pm.InstallOptions{Sudo: a.sudo(cmd, sudo)}
			return a.processHosts(cmd.Context(), func(ctx context.Context, h *host.Host) error {
				return h.Install(ctx, names, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&sudo, "sudo", false, "Run the package manager through sudo")
	return cmd
}

func (a *app) newUninstallCmd() *cobra.Command {
	var sudo bool

	cmd := &cobra.Command{
		Use:   "uninstall <package>...",
		Short: "Remove packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			opts := pm.UninstallOptions{Sudo: a.sudo(cmd, sudo)}
			return a.processHosts(cmd.Context(), func(ctx context.Context, h *host.Host) error {
				return h.Uninstall(ctx, names, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&sudo, "sudo", false, "Run the package manager through sudo")
	return cmd
}

func (a *app) newDetectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show the detected distribution and package manager of each host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q", format)
			}

			hostGroup, detectErr := a.initializeHosts(cmd.Context())
			infos := []host.Info{}
			for _, name := range hostGroup.Hostnames() {
				if h, ok := hostGroup.Get(name); ok {
					infos = append(infos, h.Info())
				}
			}

			if err := a.printInfos(infos, format); err != nil {
				return err
			}
			return detectErr
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	return cmd
}

// sudo lets an explicit --sudo win over the config file.
func (a *app) sudo(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("sudo") {
		return flag
	}
	return a.config.Sudo
}

// environment resolves PACKAGE_MANAGER as flag, then process environment,
// then config file.
func (a *app) environment() em.EnvironmentManager {
	layers := em.LayeredEnvironmentManager{}
	if a.flags.PackageManager != "" {
		layers = append(layers, em.MapEnvironmentManager{host.PackageManagerEnv: a.flags.PackageManager})
	}
	layers = append(layers, a.env)
	if a.config != nil && a.config.PackageManager != "" {
		layers = append(layers, em.MapEnvironmentManager{host.PackageManagerEnv: a.config.PackageManager})
	}
	return layers
}

func (a *app) hostnames() []string {
	names := append([]string{}, a.flags.Hostnames...)

	if a.config != nil {
		groups := make([]string, 0, len(a.config.Hosts))
		for group := range a.config.Hosts {
			groups = append(groups, group)
		}
		sort.Strings(groups)
		for _, group := range groups {
			logrus.WithField("group", group).Debug("Adding hosts from group")
			names = append(names, a.config.Hosts[group]...)
		}
	}

	if len(names) == 0 {
		names = append(names, "localhost")
	}
	return lo.Uniq(names)
}

func (a *app) buildHostOptions() ([]host.HostOption, error) {
	options := []host.HostOption{
		host.WithEnvironment(a.environment()),
		host.WithOutput(a.stdout, a.stderr),
	}
	if a.flags.Username != "" {
		options = append(options, host.WithUser(a.flags.Username))
	}
	if a.flags.KnownHostsFile != "" {
		options = append(options, host.WithKnownHosts(a.flags.KnownHostsFile))
	}
	if a.flags.OSReleasePath != "" {
		options = append(options, host.WithOSReleasePath(a.flags.OSReleasePath))
	}

	prompts := []struct {
		enabled bool
		label   string
		option  func(string) host.HostOption
	}{
		{a.flags.PasswordPrompt, "password", host.WithPassword},
		{a.flags.KeyPassPrompt, "key passphrase", host.WithKeyPassphrase},
		{a.flags.SudoPasswordPrompt, "sudo password", host.WithSudoPassword},
	}
	for _, p := range prompts {
		if !p.enabled {
			continue
		}
		secret, err := a.prompt(p.label)
		if err != nil {
			return nil, err
		}
		if secret != "" {
			options = append(options, p.option(secret))
		}
	}

	return options, nil
}

// initializeHosts detects every host. Hosts that fail detection are left out
// of the group and reported in the returned error.
func (a *app) initializeHosts(ctx context.Context) (*hostgroup.HostGroup, error) {
	hostGroup := hostgroup.NewHostGroup()

	options, err := a.buildHostOptions()
	if err != nil {
		return hostGroup, err
	}

	var result *multierror.Error
	for _, hostname := range a.hostnames() {
		logrus.WithField("host", hostname).Debug("Adding host")
		server, err := host.NewHost(ctx, hostname, options...)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("error while detecting host %s: %w", hostname, err))
			continue
		}
		hostGroup.AddHost(server)
	}

	return hostGroup, result.ErrorOrNil()
}

func (a *app) processHosts(ctx context.Context, action func(context.Context, *host.Host) error) error {
	hostGroup, err := a.initializeHosts(ctx)
	if err != nil && len(hostGroup.Hosts) == 0 {
		return flatten(err)
	}

	result := multierror.Append(err, hostGroup.Each(ctx, a.flags.Concurrency, action))
	return flatten(result.ErrorOrNil())
}

// flatten unwraps a multierror holding a single error.
func flatten(err error) error {
	if merr, ok := err.(*multierror.Error); ok && merr.Len() == 1 {
		return merr.Errors[0]
	}
	return err
}

func (a *app) printInfos(infos []host.Info, format string) error {
	if format == "yaml" {
		encoder := yaml.NewEncoder(a.stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(infos); err != nil {
			return err
		}
		return encoder.Close()
	}

	b, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(b))
	return err
}
