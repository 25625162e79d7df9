package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"jotter/internal/middleware"
	"jotter/internal/models"
	"jotter/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxDimension is the bounding box uploads are resized into.
	MaxDimension = 2048
	// WebPQuality balances size against artifacting for social images.
	WebPQuality = 80
)

// DiskStore is a Store backed by the local filesystem. Files are stored as
// <uploadDir>/<folder>/<uuid>.webp and served under baseURL by the HTTP
// static handler.
type DiskStore struct {
	uploadDir string
	baseURL   string
	maxBytes  int64
}

// NewDiskStore creates the store and its upload directory.
func NewDiskStore(uploadDir, baseURL string, maxUploadSizeMB int) (*DiskStore, error) {
	if uploadDir == "" {
		return nil, fmt.Errorf("media upload dir is required")
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media upload dir: %w", err)
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 10
	}
	return &DiskStore{
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		maxBytes:  int64(maxUploadSizeMB) * 1024 * 1024,
	}, nil
}

// UploadDir exposes the root for the static file route.
func (s *DiskStore) UploadDir() string { return s.uploadDir }

// Upload validates, normalizes and persists one image. The returned public
// ID is the relative path under the upload dir. Bad uploads are rejected
// with a ValidationError so the caller answers 400, not 500.
func (s *DiskStore) Upload(ctx context.Context, content []byte, contentType, folder string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, models.NewValidationError("File is empty")
	}
	if int64(len(content)) > s.maxBytes {
		observability.MediaUploads.WithLabelValues(folder, "rejected").Inc()
		return nil, models.NewValidationError(
			fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	if !strings.HasPrefix(detected, "image/") {
		observability.MediaUploads.WithLabelValues(folder, "rejected").Inc()
		return nil, models.NewValidationError(
			fmt.Sprintf("Unsupported content type %q", detected))
	}
	if provided := normalizeContentType(contentType); provided != "" && provided != detected {
		observability.MediaUploads.WithLabelValues(folder, "rejected").Inc()
		return nil, models.NewValidationError(
			fmt.Sprintf("Content type mismatch: declared %q, detected %q", provided, detected))
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		observability.MediaUploads.WithLabelValues(folder, "rejected").Inc()
		return nil, models.NewValidationError("Invalid or corrupted image file")
	}

	normalized := resizeToFit(decoded, MaxDimension, MaxDimension)
	encoded, err := webp.EncodeRGBA(normalized, WebPQuality)
	if err != nil {
		observability.MediaUploads.WithLabelValues(folder, "error").Inc()
		return nil, fmt.Errorf("encode image: %w", err)
	}

	folder = sanitizeFolder(folder)
	publicID := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+".webp"))
	abs := filepath.Join(s.uploadDir, filepath.FromSlash(publicID))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		observability.MediaUploads.WithLabelValues(folder, "error").Inc()
		return nil, fmt.Errorf("create media folder: %w", err)
	}
	if err := os.WriteFile(abs, encoded, 0o644); err != nil {
		observability.MediaUploads.WithLabelValues(folder, "error").Inc()
		return nil, fmt.Errorf("write media file: %w", err)
	}

	observability.MediaUploads.WithLabelValues(folder, "ok").Inc()
	return &Asset{
		URL:      s.baseURL + "/" + publicID,
		PublicID: publicID,
	}, nil
}

// Delete removes a previously uploaded asset. Missing files are not errors.
func (s *DiskStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" || strings.Contains(publicID, "..") {
		return nil
	}
	abs := filepath.Join(s.uploadDir, filepath.FromSlash(publicID))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteQuietly is the best-effort deletion used when a row superseding or
// dropping an asset has already committed.
func DeleteQuietly(ctx context.Context, store Store, publicID string) {
	if store == nil || publicID == "" {
		return
	}
	if err := store.Delete(ctx, publicID); err != nil {
		middleware.Logger.WarnContext(ctx, "media delete failed",
			"public_id", publicID, "error", err.Error())
	}
}

func normalizeContentType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(strings.ToLower(folder), "/")
	if folder == "" || strings.Contains(folder, "..") {
		return "misc"
	}
	return folder
}

// resizeToFit scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already inside the box are returned converted, not upscaled.
func resizeToFit(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := 1.0
	if w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if sh := float64(maxH) / float64(h); h > maxH && sh < scale {
		scale = sh
	}

	outW, outH := w, h
	if scale < 1.0 {
		outW = int(float64(w) * scale)
		outH = int(float64(h) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
