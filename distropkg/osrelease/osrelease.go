// Package osrelease reads the freedesktop os-release file describing the
// running distribution.
//
// See https://www.freedesktop.org/software/systemd/man/latest/os-release.html
package osrelease

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// DefaultPath is where os-release lives on every supported distribution.
const DefaultPath = "/etc/os-release"

// Platform is the only operating system os-release files are read on.
const Platform = "linux"

var requiredKeys = []string{"ID"}

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrMissingRequiredKey  = errors.New("missing required key")
)

// goos is swapped out by tests.
var goos = runtime.GOOS

// OSRelease maps os-release keys to their (unquoted) values.
type OSRelease map[string]string

// ID returns the distribution identifier, e.g. "ubuntu".
func (o OSRelease) ID() string {
	return o["ID"]
}

// Load reads and parses the os-release file at path, DefaultPath when empty.
// It refuses to run anywhere but Linux. Load is the entry point for callers
// on the local machine; host detection reads through a FileManager and
// calls Parse so it also works over SSH.
func Load(path string) (OSRelease, error) {
	if err := CheckPlatform(goos); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	return Parse(data, path)
}

// CheckPlatform returns ErrUnsupportedPlatform unless platform is Linux.
func CheckPlatform(platform string) error {
	if platform != Platform {
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return nil
}

// Parse reads KEY=VALUE lines. Lines that do not split into exactly one key
// and one value are skipped. One pair of surrounding double quotes is
// stripped from values; escapes are left alone. path only labels errors.
func Parse(data []byte, path string) (OSRelease, error) {
	osRelease := OSRelease{}

	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}

		key, value := parts[0], parts[1]
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		osRelease[key] = value
	}

	for _, key := range requiredKeys {
		if osRelease[key] == "" {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingRequiredKey, key, path)
		}
	}

	return osRelease, nil
}
