package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jotter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireValidationError asserts a rejected upload surfaces as a 400, not a
// generic internal error.
func requireValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "/uploads", 10)
	require.NoError(t, err)
	return store
}

func TestDiskStoreUpload(t *testing.T) {
	store := newTestStore(t)

	asset, err := store.Upload(context.Background(), pngBytes(t, 64, 48), "image/png", "jots")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.URL, "/uploads/jots/"))
	assert.True(t, strings.HasSuffix(asset.PublicID, ".webp"))

	abs := filepath.Join(store.UploadDir(), filepath.FromSlash(asset.PublicID))
	info, err := os.Stat(abs)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDiskStoreUploadDetectsType(t *testing.T) {
	store := newTestStore(t)

	// A declared content type is checked against the sniffed one.
	_, err := store.Upload(context.Background(), pngBytes(t, 8, 8), "image/jpeg", "jots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Content type mismatch")
	requireValidationError(t, err)

	// Non-image payloads are rejected outright.
	_, err = store.Upload(context.Background(), []byte("just some text content here"), "", "jots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported content type")
	requireValidationError(t, err)

	// Corrupt image bytes decode-fail but still answer 400.
	corrupt := pngBytes(t, 8, 8)[:20]
	_, err = store.Upload(context.Background(), corrupt, "", "jots")
	require.Error(t, err)
	requireValidationError(t, err)
}

func TestDiskStoreUploadRejectsEmptyAndOversize(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads", 1)
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), nil, "", "jots")
	require.Error(t, err)
	requireValidationError(t, err)

	big := make([]byte, 2*1024*1024)
	_, err = store.Upload(context.Background(), big, "", "jots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File too large")
	requireValidationError(t, err)
}

func TestDiskStoreUploadSanitizesFolder(t *testing.T) {
	store := newTestStore(t)

	asset, err := store.Upload(context.Background(), pngBytes(t, 8, 8), "", "../../etc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.PublicID, "misc/"), "public id %q", asset.PublicID)
}

func TestDiskStoreDelete(t *testing.T) {
	store := newTestStore(t)

	asset, err := store.Upload(context.Background(), pngBytes(t, 8, 8), "", "avatars")
	require.NoError(t, err)
	abs := filepath.Join(store.UploadDir(), filepath.FromSlash(asset.PublicID))

	require.NoError(t, store.Delete(context.Background(), asset.PublicID))
	_, err = os.Stat(abs)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine, as is a traversal attempt.
	assert.NoError(t, store.Delete(context.Background(), asset.PublicID))
	assert.NoError(t, store.Delete(context.Background(), "../outside.webp"))
}

func TestResizeToFit(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 4096, 1024))
	out := resizeToFit(wide, MaxDimension, MaxDimension)
	assert.Equal(t, 2048, out.Bounds().Dx())
	assert.Equal(t, 512, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out = resizeToFit(small, MaxDimension, MaxDimension)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}
