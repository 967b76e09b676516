package commandmanager

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	w := newPrefixWriter(&out, "[yum] ")

	_, err := w.Write([]byte("Loaded plugins\nResolving"))
	require.NoError(t, err)
	assert.Equal(t, "[yum] Loaded plugins\n", out.String())

	_, err = w.Write([]byte(" dependencies\n"))
	require.NoError(t, err)
	assert.Equal(t, "[yum] Loaded plugins\n[yum] Resolving dependencies\n", out.String())
}

func TestPrefixWriterFlush(t *testing.T) {
	var out bytes.Buffer
	w := newPrefixWriter(&out, "[zypper] ")

	_, err := w.Write([]byte("no newline"))
	require.NoError(t, err)
	assert.Empty(t, out.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "[zypper] no newline\n", out.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "[zypper] no newline\n", out.String())
}
