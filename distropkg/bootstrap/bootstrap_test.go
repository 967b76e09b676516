package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	"github.com/steelcutops/distropkg/distropkg/osrelease"
)

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(msg string, args ...interface{})  { m.Called(msg) }
func (m *MockLogger) Debug(msg string, args ...interface{}) { m.Called(msg) }
func (m *MockLogger) Warn(msg string, args ...interface{})  { m.Called(msg) }
func (m *MockLogger) Error(msg string, args ...interface{}) { m.Called(msg) }

func run(t *testing.T, env em.MapEnvironmentManager, fn func() error) (int, string, string, *MockLogger) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	log := &MockLogger{}
	log.On("Error", mock.Anything).Return()

	code := Run(fn,
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithLogger(log),
		WithEnvironment(env),
	)
	return code, stdout.String(), stderr.String(), log
}

func TestRunSuccess(t *testing.T) {
	called := false
	code, stdout, stderr, log := run(t, em.MapEnvironmentManager{}, func() error {
		called = true
		return nil
	})

	assert.True(t, called)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	log.AssertNotCalled(t, "Error", mock.Anything)
}

func TestRunFailure(t *testing.T) {
	err := fmt.Errorf("%w: darwin", osrelease.ErrUnsupportedPlatform)
	code, stdout, stderr, log := run(t, em.MapEnvironmentManager{}, func() error {
		return err
	})

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: ", stderr)
	assert.Empty(t, stdout)
	log.AssertCalled(t, "Error", "unsupported platform: darwin")
}

func TestRunRecoversPanics(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		msg   string
	}{
		{"error", errors.New("exploded"), "exploded"},
		{"string", "exploded", "exploded"},
		{"other", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr, log := run(t, em.MapEnvironmentManager{}, func() error {
				panic(tt.value)
			})

			assert.Equal(t, 1, code)
			assert.Equal(t, "Error: ", stderr)
			log.AssertCalled(t, "Error", tt.msg)
		})
	}
}

func TestRunGitHubActionsAnnotation(t *testing.T) {
	env := em.MapEnvironmentManager{GitHubActionsEnv: "true"}
	code, stdout, stderr, _ := run(t, env, func() error {
		return errors.New("100% broken\r\nsee log")
	})

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: ", stderr)
	assert.Equal(t, "::error::100%25 broken%0D%0Asee log\n", stdout)
}

func TestRunNoAnnotationOutsideGitHubActions(t *testing.T) {
	env := em.MapEnvironmentManager{GitHubActionsEnv: "false"}
	_, stdout, _, _ := run(t, env, func() error {
		return errors.New("broken")
	})

	assert.Empty(t, stdout)
}
