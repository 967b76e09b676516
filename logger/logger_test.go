package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	assert.Equal(t, logrus.Fields{"host": "web1", "attempt": 2}, Fields("host", "web1", "attempt", 2))
	assert.Equal(t, logrus.Fields{"host": "web1", "!BADKEY": "dangling"}, Fields("host", "web1", "dangling"))
	assert.Empty(t, Fields())
}

func TestLoggerLevels(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	log := New(l)

	log.Debug("debugging")
	log.Info("informing", "host", "web1")
	log.Warn("warning")
	log.Error("failing", "error", "boom")

	require.Len(t, hook.Entries, 4)
	assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
	assert.Equal(t, "web1", hook.Entries[1].Data["host"])
	assert.Equal(t, logrus.WarnLevel, hook.Entries[2].Level)

	last := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Equal(t, "failing", last.Message)
	assert.Equal(t, "boom", last.Data["error"])
}

func TestNewDefaultsToStandardLogger(t *testing.T) {
	log := New(nil).(*StdLogger)
	assert.Same(t, logrus.StandardLogger(), log.internalLogger)
}
