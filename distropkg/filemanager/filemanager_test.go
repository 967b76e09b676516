package filemanager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

type MockCommandManager struct {
	Result cm.CommandResult
	Err    error
	Config cm.CommandConfig
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	m.Config = config
	return m.Result, m.Err
}

func TestLocalReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte("ID=debian\n"), 0644))

	data, err := LocalFileManager{}.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ID=debian\n", string(data))
}

func TestLocalReadFileMissing(t *testing.T) {
	_, err := LocalFileManager{}.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnixReadFile(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: "ID=sles\n"},
	}
	manager := UnixFileManager{CommandManager: mockCmd}

	data, err := manager.ReadFile(context.Background(), "/etc/os-release")
	require.NoError(t, err)
	assert.Equal(t, "ID=sles\n", string(data))
	assert.Equal(t, []string{"cat", "/etc/os-release"}, mockCmd.Config.Argv())
	assert.True(t, mockCmd.Config.Quiet)
}

func TestUnixReadFileError(t *testing.T) {
	mockCmd := &MockCommandManager{Err: errors.New("mock error")}
	manager := UnixFileManager{CommandManager: mockCmd}

	_, err := manager.ReadFile(context.Background(), "/etc/os-release")
	assert.EqualError(t, err, "could not read /etc/os-release: mock error")
}

func TestUnixReadFileNonZeroExit(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{ExitCode: 1, STDERR: "cat: /etc/os-release: No such file or directory"},
	}
	manager := UnixFileManager{CommandManager: mockCmd}

	_, err := manager.ReadFile(context.Background(), "/etc/os-release")
	assert.EqualError(t, err, "could not read /etc/os-release: cat: /etc/os-release: No such file or directory")
}
