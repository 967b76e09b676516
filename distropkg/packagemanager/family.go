package packagemanager

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

// Family groups distributions that share a package manager.
type Family string

const (
	Apt    Family = "apt"
	Yum    Family = "yum"
	Zypper Family = "zypper"
	Echo   Family = "echo"
)

var ErrUnsupportedDistribution = errors.New("unsupported distribution")

// os-release IDs per family.
var familyIDs = []struct {
	family Family
	ids    []string
}{
	{Yum, []string{"rhel", "centos", "ol", "fedora"}},
	{Apt, []string{"debian", "ubuntu", "linuxmint"}},
	{Zypper, []string{"opensuse", "opensuse-leap", "sles"}},
}

// FamilyForID maps an os-release ID to its package manager family.
func FamilyForID(id string) (Family, error) {
	for _, entry := range familyIDs {
		if lo.Contains(entry.ids, id) {
			return entry.family, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedDistribution, id)
}

// New builds the package manager for family. Echo writes to out; the others
// run their commands through commandManager.
func New(family Family, commandManager cm.CommandManager, out io.Writer) (PackageManager, error) {
	switch family {
	case Apt:
		return &AptPackageManager{CommandManager: commandManager}, nil
	case Yum:
		return &YumPackageManager{CommandManager: commandManager}, nil
	case Zypper:
		return &ZypperPackageManager{CommandManager: commandManager}, nil
	case Echo:
		return &EchoPackageManager{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown package manager family: %q", family)
	}
}
