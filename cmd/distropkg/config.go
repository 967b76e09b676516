package main

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Keys of this section are settings; every other section is a host group.
const defaultsSection = "defaults"

type config struct {
	Sudo           bool
	PackageManager string
	OSReleasePath  string
	Concurrency    int
	Username       string
	Hosts          map[string][]string
}

func loadConfig(filePath string) (*config, error) {
	cfg := &config{Concurrency: defaultConcurrency, Hosts: map[string][]string{}}
	if filePath == "" {
		return cfg, nil
	}

	file, err := ini.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not load config %s: %w", filePath, err)
	}

	if file.HasSection(defaultsSection) {
		defaults := file.Section(defaultsSection)
		cfg.Sudo = defaults.Key("sudo").MustBool(false)
		cfg.PackageManager = defaults.Key("package_manager").String()
		cfg.OSReleasePath = defaults.Key("os_release").String()
		cfg.Concurrency = defaults.Key("concurrency").MustInt(defaultConcurrency)
		cfg.Username = defaults.Key("username").String()
	}
	cfg.Hosts = hostGroups(file)

	return cfg, nil
}

func hostGroups(file *ini.File) map[string][]string {
	hosts := make(map[string][]string)

	for _, section := range file.Sections() {
		name := section.Name()
		if name == defaultsSection {
			continue
		}
		for _, key := range section.Keys() {
			hosts[name] = append(hosts[name], key.String())
		}
	}

	return hosts
}
