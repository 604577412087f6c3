package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hansol-dev/leaguedesk/storage"
	"github.com/jonboulle/clockwork"
)

// photoKeyPrefix is the folder every game photo lives under in the bucket.
// Keys look like game_photos/<ownerID>_<millis>.<ext>.
const photoKeyPrefix = "game_photos"

// PhotoService owns the lifecycle of the single photo asset attached to a
// match record: attach, replace (with cleanup of the prior asset) and
// release on record deletion.
type PhotoService struct {
	uploader storage.FileUploader
	clock    clockwork.Clock
	logger   *slog.Logger
}

func NewPhotoService(uploader storage.FileUploader, clock clockwork.Clock, logger *slog.Logger) *PhotoService {
	return &PhotoService{
		uploader: uploader,
		clock:    clock,
		logger:   logger,
	}
}

// Attach uploads a new photo for the given owner record and returns its
// public URL. The key embeds a time-based token so reusing an owner id can
// not collide, and the upload refuses to overwrite an existing object. On
// failure no asset is referenced anywhere; the caller must only persist the
// returned URL.
func (s *PhotoService) Attach(ctx context.Context, ownerID int, contentType string, r io.Reader) (string, error) {
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedContentType, err)
	}

	key := fmt.Sprintf("%s/%d_%d%s", photoKeyPrefix, ownerID, s.clock.Now().UnixMilli(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, r, storage.UploadOptions{Overwrite: false})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPhotoUploadFailed, err)
	}
	return result.Location, nil
}

// Replace swaps the owner's photo: best-effort delete of the old asset,
// then a fresh Attach. A failed delete of the old asset is logged and
// ignored so cleanup problems never block the user. If the upload fails
// after the old asset is gone, the owner keeps its stale URL until a later
// upload succeeds; there is deliberately no rollback.
func (s *PhotoService) Replace(ctx context.Context, ownerID int, existingURL, contentType string, r io.Reader) (string, error) {
	s.deleteByURL(ctx, existingURL)
	return s.Attach(ctx, ownerID, contentType, r)
}

// Release deletes the asset behind the URL, best-effort. Used when the
// owning record is deleted; a failure here must never block that deletion.
func (s *PhotoService) Release(ctx context.Context, existingURL string) {
	s.deleteByURL(ctx, existingURL)
}

func (s *PhotoService) deleteByURL(ctx context.Context, photoURL string) {
	key, ok := PhotoKeyFromURL(photoURL)
	if !ok {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete photo asset",
			slog.String("key", key), slog.Any("error", err))
	}
}

// PhotoKeyFromURL recovers the storage key from a public photo URL: the last
// path segment, re-anchored under the photo prefix.
func PhotoKeyFromURL(photoURL string) (string, bool) {
	if photoURL == "" {
		return "", false
	}
	parts := strings.Split(photoURL, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "", false
	}
	return photoKeyPrefix + "/" + name, true
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
