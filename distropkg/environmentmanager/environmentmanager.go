package environmentmanager

import "os"

// EnvironmentManager looks up settings that may be overridden from outside,
// such as PACKAGE_MANAGER.
type EnvironmentManager interface {
	Lookup(key string) (string, bool)
}

// OSEnvironmentManager reads the process environment.
type OSEnvironmentManager struct{}

func (OSEnvironmentManager) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironmentManager serves fixed values, e.g. from flags or a config file.
type MapEnvironmentManager map[string]string

func (m MapEnvironmentManager) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// LayeredEnvironmentManager asks each layer in order; the first that knows
// the key wins.
type LayeredEnvironmentManager []EnvironmentManager

func (l LayeredEnvironmentManager) Lookup(key string) (string, bool) {
	for _, layer := range l {
		if layer == nil {
			continue
		}
		if value, ok := layer.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// Get returns the value of key, or "" when unset.
func Get(env EnvironmentManager, key string) string {
	value, _ := env.Lookup(key)
	return value
}
