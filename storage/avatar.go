//go:generate go run go.uber.org/mock/mockgen -source=avatar.go -destination=../mocks/mock_avatar_store.go -package=mocks
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"social-club/errors"

	"github.com/gabriel-vasile/mimetype"
)

// AvatarStore keeps one profile picture per user and returns its public URL.
type AvatarStore interface {
	Save(ctx context.Context, userID string, r io.Reader) (string, error)
}

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DiskStore writes avatars under dir and serves them from baseURL.
type DiskStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	log      *slog.Logger
}

func NewDiskStore(dir, baseURL string, maxBytes int64, log *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &DiskStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		log:      log,
	}, nil
}

func (d *DiskStore) Dir() string { return d.dir }

// Save sniffs the content type from the bytes themselves, never from a client header.
// The file is written next to its destination then renamed, so readers never see a partial image.
func (d *DiskStore) Save(ctx context.Context, userID string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return "", errors.ErrAvatarTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mime := mimetype.Detect(data).String()
	ext, ok := avatarExtensions[mime]
	if !ok {
		d.log.Debug("Rejected avatar", "user_id", userID, "mime_type", mime)
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedAvatar, mime)
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	d.removePrevious(userID)
	name := userID + ext
	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, name)); err != nil {
		return "", err
	}
	d.log.Debug("Stored avatar", "user_id", userID, "mime_type", mime, "size", len(data))
	return d.baseURL + "/" + name, nil
}

// removePrevious drops an avatar stored under another extension.
func (d *DiskStore) removePrevious(userID string) {
	for _, ext := range avatarExtensions {
		path := filepath.Join(d.dir, userID+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.log.Warn("Failed to remove previous avatar", "path", path, "error", err)
		}
	}
}
