package hostmanager

import (
	"context"
	"errors"
	"runtime"
	"testing"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

type MockCommandManager struct {
	Outputs map[string]string
	Err     error
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	if output, exists := m.Outputs[config.Command]; exists {
		return cm.CommandResult{STDOUT: output}, m.Err
	}
	return cm.CommandResult{}, m.Err
}

func TestPlatform(t *testing.T) {
	mockCmd := &MockCommandManager{
		Outputs: map[string]string{
			"uname": "Linux\n",
		},
	}
	hostManager := UnixHostManager{CommandManager: mockCmd}

	platform, err := hostManager.Platform(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if platform != "linux" {
		t.Errorf("Expected platform 'linux', got: %v", platform)
	}
}

func TestPlatformError(t *testing.T) {
	mockCmd := &MockCommandManager{Err: errors.New("mock error")}
	hostManager := UnixHostManager{CommandManager: mockCmd}

	_, err := hostManager.Platform(context.Background())
	if err == nil || err.Error() != "mock error" {
		t.Errorf("Expected mock error, got: %v", err)
	}
}

func TestHostname(t *testing.T) {
	mockCmd := &MockCommandManager{
		Outputs: map[string]string{
			"hostname": "test-hostname\n",
		},
	}
	hostManager := UnixHostManager{CommandManager: mockCmd}

	hostname, err := hostManager.Hostname(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if hostname != "test-hostname" {
		t.Errorf("Expected hostname 'test-hostname', got: %v", hostname)
	}
}

func TestLocalPlatform(t *testing.T) {
	platform, err := LocalHostManager{}.Platform(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if platform != runtime.GOOS {
		t.Errorf("Expected platform %q, got: %v", runtime.GOOS, platform)
	}
}
