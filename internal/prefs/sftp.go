package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPConfig holds the connection settings of an SFTP backend.
type SFTPConfig struct {
	Addr     string        // Addr is the SSH server address, e.g. "localhost:2222".
	User     string        // User is the SSH login name.
	Password string        // Password is the SSH password.
	Dir      string        // Dir is the remote directory holding the documents.
	Timeout  time.Duration // Timeout bounds the SSH handshake.
}

// SFTPBackend stores preference documents on a remote host, typically the device itself.
type SFTPBackend struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	dir        string
}

// DialSFTP connects to the SSH server described by cfg.
func DialSFTP(cfg SFTPConfig) (*SFTPBackend, error) {
	// Establish SSH connection
	sshClient, err := ssh.Dial(
		"tcp",
		cfg.Addr,
		&ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         cfg.Timeout,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("establish SSH connect: %w", err)
	}

	// Establish SFTP connection
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close() //nolint
		return nil, fmt.Errorf("establish SFTP connect: %w", err)
	}

	return &SFTPBackend{sshClient: sshClient, sftpClient: sftpClient, dir: cfg.Dir}, nil
}

// NewSFTPBackend returns a backend on an already established SFTP session.
func NewSFTPBackend(client *sftp.Client, dir string) *SFTPBackend {
	return &SFTPBackend{sftpClient: client, dir: dir}
}

// Close terminates the SFTP session and, if owned, the SSH connection.
func (b *SFTPBackend) Close() error {
	err := b.sftpClient.Close()

	if b.sshClient != nil {
		err = errors.Join(err, b.sshClient.Close())
	}

	return err
}

// ReadFile implements Backend.
func (b *SFTPBackend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Open remote file
	remoteFile, err := b.sftpClient.Open(path.Join(b.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fs.ErrNotExist
		}

		return nil, fmt.Errorf("open remote file: %w", err)
	}

	defer remoteFile.Close()

	// Read content
	data, err := io.ReadAll(remoteFile)
	if err != nil {
		return nil, fmt.Errorf("read remote file: %w", err)
	}

	return data, nil
}

// WriteFile implements Backend. The document is written to a temporary file
// first and renamed into place.
func (b *SFTPBackend) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ensure remote directory exists
	err := b.sftpClient.MkdirAll(b.dir)
	if err != nil {
		return fmt.Errorf("ensure remote directory exists: %w", err)
	}

	// Write temporary file
	tmp := path.Join(b.dir, "."+name+"."+uuid.NewString()+".tmp")

	err = b.writeTemp(tmp, data)
	if err != nil {
		_ = b.sftpClient.Remove(tmp)
		return err
	}

	// Move into place. Servers without the posix-rename extension refuse to
	// replace an existing file, so fall back to remove and rename.
	target := path.Join(b.dir, name)

	if err := b.sftpClient.PosixRename(tmp, target); err == nil {
		return nil
	}

	if err := b.sftpClient.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = b.sftpClient.Remove(tmp)
		return fmt.Errorf("remove remote file: %w", err)
	}

	if err := b.sftpClient.Rename(tmp, target); err != nil {
		_ = b.sftpClient.Remove(tmp)
		return fmt.Errorf("rename temporary file: %w", err)
	}

	return nil
}

// writeTemp creates a remote file with the given content.
func (b *SFTPBackend) writeTemp(tmp string, data []byte) error {
	remoteFile, err := b.sftpClient.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	if _, err := remoteFile.Write(data); err != nil {
		remoteFile.Close() //nolint
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err := remoteFile.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}

	return nil
}
