package filemanager

import (
	"context"
	"errors"
	"fmt"
	"os"

	cm "github.com/steelcutops/distropkg/distropkg/commandmanager"
)

// FileManager reads files on a host.
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// LocalFileManager reads from this machine's filesystem.
type LocalFileManager struct{}

func (LocalFileManager) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return data, nil
}

// UnixFileManager reads files through a CommandManager, which makes it work
// on remote hosts.
type UnixFileManager struct {
	CommandManager cm.CommandManager
}

func (ufm *UnixFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	result, err := ufm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "cat",
		Args:    []string{path},
		Quiet:   true,
	})
	if err := handleCommandResult(result, err); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return []byte(result.STDOUT), nil
}

func handleCommandResult(result cm.CommandResult, err error) error {
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errors.New(result.STDERR)
	}
	return nil
}
