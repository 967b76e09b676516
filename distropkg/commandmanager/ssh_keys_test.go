package commandmanager

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// serveAgent runs an in-memory SSH agent holding one key and returns its socket.
func serveAgent(t *testing.T) string {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	keyring := agent.NewKeyring()
	require.NoError(t, keyring.Add(agent.AddedKey{PrivateKey: key}))

	// unix socket paths are short; t.TempDir can be too long.
	dir, err := os.MkdirTemp("", "agent")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket := filepath.Join(dir, "agent.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_ = agent.ServeAgent(keyring, conn)
			}()
		}
	}()

	return socket
}

func TestAgentSignersSignUntilClosed(t *testing.T) {
	km := &AgentSSHKeyManager{Socket: serveAgent(t)}

	signers, err := km.ReadPrivateKeys("")
	require.NoError(t, err)
	require.Len(t, signers, 1)

	data := []byte("session id")
	signature, err := signers[0].Sign(rand.Reader, data)
	require.NoError(t, err)
	assert.NoError(t, signers[0].PublicKey().Verify(data, signature))

	require.NoError(t, km.Close())
	_, err = signers[0].Sign(rand.Reader, data)
	assert.Error(t, err)
	assert.NoError(t, km.Close())
}

func TestAgentFromEnvironment(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", serveAgent(t))
	km := &AgentSSHKeyManager{}
	defer km.Close()

	signers, err := km.ReadPrivateKeys("")
	require.NoError(t, err)
	assert.Len(t, signers, 1)
}

func TestAgentNotConfigured(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	_, err := (&AgentSSHKeyManager{}).ReadPrivateKeys("")
	assert.EqualError(t, err, "SSH_AUTH_SOCK not set")
}

func TestSSHConfigKeepsAgentOpenUntilReleased(t *testing.T) {
	km := &AgentSSHKeyManager{Socket: serveAgent(t)}
	manager := UnixCommandManager{
		Hostname:    "remote",
		KeyManager:  km,
		Credentials: Credentials{User: "user"},
	}

	config, closeKeys, err := manager.getSSHConfig()
	require.NoError(t, err)
	assert.Equal(t, "user", config.User)
	require.NotNil(t, km.conn)

	closeKeys()
	assert.Nil(t, km.conn)
}

func TestFileSSHKeyManager(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(key, "")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519"), pem.EncodeToMemory(block), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519.pub"), []byte("ignored"), 0644))

	signers, err := FileSSHKeyManager{Dir: dir}.ReadPrivateKeys("")
	require.NoError(t, err)
	assert.Len(t, signers, 1)

	_, err = FileSSHKeyManager{Dir: t.TempDir()}.ReadPrivateKeys("")
	assert.ErrorContains(t, err, "no usable private keys")
}
