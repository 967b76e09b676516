package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	em "github.com/steelcutops/distropkg/distropkg/environmentmanager"
	"github.com/steelcutops/distropkg/logger"
)

// GitHubActionsEnv is set to "true" by GitHub Actions runners.
const GitHubActionsEnv = "GITHUB_ACTIONS"

type runner struct {
	stdout      io.Writer
	stderr      io.Writer
	logger      logger.Logger
	environment em.EnvironmentManager
}

type Option func(*runner)

func WithStdout(w io.Writer) Option {
	return func(r *runner) {
		r.stdout = w
	}
}

func WithStderr(w io.Writer) Option {
	return func(r *runner) {
		r.stderr = w
	}
}

// WithLogger sets the sink failures are reported through.
func WithLogger(l logger.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

func WithEnvironment(env em.EnvironmentManager) Option {
	return func(r *runner) {
		r.environment = env
	}
}

// Run executes fn and turns its outcome into a process exit code. A failure,
// including a panic, writes "Error: " to stderr, is reported through the
// logger and yields 1. Run itself never panics.
func Run(fn func() error, opts ...Option) (code int) {
	r := &runner{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		environment: em.OSEnvironmentManager{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.New(nil)
	}

	defer func() {
		if p := recover(); p != nil {
			code = r.fail(panicError(p))
		}
	}()

	if err := fn(); err != nil {
		return r.fail(err)
	}
	return 0
}

func (r *runner) fail(err error) int {
	fmt.Fprint(r.stderr, "Error: ")
	r.logger.Error(err.Error())
	if em.Get(r.environment, GitHubActionsEnv) == "true" {
		fmt.Fprintf(r.stdout, "::error::%s\n", escapeData(err.Error()))
	}
	return 1
}

func panicError(p interface{}) error {
	switch v := p.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}

// escapeData encodes a workflow command payload.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
