package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPhotoService(uploader *fakeUploader, at time.Time) *PhotoService {
	return NewPhotoService(uploader, clockwork.NewFakeClockAt(at), discardLogger())
}

func TestPhotoServiceAttachKeyShape(t *testing.T) {
	uploader := newFakeUploader()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	svc := newTestPhotoService(uploader, at)

	url, err := svc.Attach(context.Background(), 7, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.Len(t, uploader.uploads, 1)
	call := uploader.uploads[0]
	wantKey := "game_photos/7_" + millisString(at) + ".png"
	assert.Equal(t, wantKey, call.Key)
	assert.Equal(t, "image/png", call.ContentType)
	assert.False(t, call.Opts.Overwrite, "attach must never overwrite an existing asset")
	assert.Equal(t, "png-bytes", call.Body)
	assert.Equal(t, "https://cdn.example.com/"+wantKey, url)
}

func TestPhotoServiceAttachUnsupportedContentType(t *testing.T) {
	uploader := newFakeUploader()
	svc := newTestPhotoService(uploader, time.Now())

	_, err := svc.Attach(context.Background(), 7, "application/pdf", strings.NewReader("nope"))
	require.ErrorIs(t, err, ErrUnsupportedContentType)
	assert.Empty(t, uploader.uploads)
}

func TestPhotoServiceAttachUploadFailure(t *testing.T) {
	uploader := newFakeUploader()
	uploader.uploadErr = errors.New("bucket unreachable")
	svc := newTestPhotoService(uploader, time.Now())

	url, err := svc.Attach(context.Background(), 7, "image/jpeg", strings.NewReader("jpg"))
	require.ErrorIs(t, err, ErrPhotoUploadFailed)
	assert.Empty(t, url)
}

func TestPhotoServiceReplaceDeletesOldAssetFirst(t *testing.T) {
	uploader := newFakeUploader()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	svc := newTestPhotoService(uploader, at)

	oldURL := "https://cdn.example.com/game_photos/7_1700000000000.png"
	url, err := svc.Replace(context.Background(), 7, oldURL, "image/jpeg", strings.NewReader("new"))
	require.NoError(t, err)
	assert.NotEqual(t, oldURL, url)

	require.Len(t, uploader.ops, 2)
	assert.Equal(t, "delete:game_photos/7_1700000000000.png", uploader.ops[0])
	assert.Equal(t, "upload:game_photos/7_"+millisString(at)+".jpg", uploader.ops[1])
}

func TestPhotoServiceReplaceIgnoresDeleteFailure(t *testing.T) {
	uploader := newFakeUploader()
	uploader.deleteErr = errors.New("object locked")
	svc := newTestPhotoService(uploader, time.Now())

	oldURL := "https://cdn.example.com/game_photos/7_1.png"
	url, err := svc.Replace(context.Background(), 7, oldURL, "image/png", strings.NewReader("new"))
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Len(t, uploader.uploads, 1, "upload must proceed even when old-asset cleanup fails")
}

func TestPhotoServiceReleaseBestEffort(t *testing.T) {
	uploader := newFakeUploader()
	uploader.deleteErr = errors.New("object locked")
	svc := newTestPhotoService(uploader, time.Now())

	svc.Release(context.Background(), "https://cdn.example.com/game_photos/7_1.png")
	assert.Equal(t, []string{"game_photos/7_1.png"}, uploader.deletes)
}

func TestPhotoKeyFromURL(t *testing.T) {
	key, ok := PhotoKeyFromURL("https://cdn.example.com/game_photos/7_123.png")
	require.True(t, ok)
	assert.Equal(t, "game_photos/7_123.png", key)

	_, ok = PhotoKeyFromURL("")
	assert.False(t, ok)

	_, ok = PhotoKeyFromURL("https://cdn.example.com/game_photos/")
	assert.False(t, ok)
}

func millisString(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
