package prefs

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInMemorySFTP returns a client connected to an in-memory SFTP server.
func newInMemorySFTP(t *testing.T) *sftp.Client {
	t.Helper()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server := sftp.NewRequestServer(
		struct {
			io.Reader
			io.WriteCloser
		}{serverReader, serverWriter},
		sftp.InMemHandler(),
	)

	go server.Serve() //nolint

	client, err := sftp.NewClientPipe(clientReader, clientWriter)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close() //nolint
		server.Close() //nolint
	})

	return client
}

func TestSFTPBackendMissingFile(t *testing.T) {
	p := Open(NewSFTPBackend(newInMemorySFTP(t), "/data/prefs"), "pinned")

	_, found, err := p.GetStringSet(context.Background(), "pinned_apps")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSFTPBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newInMemorySFTP(t)
	p := Open(NewSFTPBackend(client, "/data/prefs"), "pinned")

	// Second write replaces an existing file
	require.NoError(t, p.PutStringSet(ctx, "pinned_apps", []string{"com.example.a"}))
	require.NoError(t, p.PutStringSet(ctx, "pinned_apps", []string{"com.example.a", "com.example.b"}))

	values, found, err := p.GetStringSet(ctx, "pinned_apps")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"com.example.a", "com.example.b"}, values)

	entries, err := client.ReadDir("/data/prefs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pinned.xml", entries[0].Name())

	require.NoError(t, p.Remove(ctx, "pinned_apps"))

	_, found, err = p.GetStringSet(ctx, "pinned_apps")
	require.NoError(t, err)
	assert.False(t, found)
}
