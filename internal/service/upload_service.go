package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for thumbnail generation
	_ "image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"stitchhub/internal/models"
	"stitchhub/internal/observability"
	"stitchhub/internal/storage"
	"stitchhub/internal/validation"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxUploadBytes is the per-file size limit.
	MaxUploadBytes = 5 * 1024 * 1024

	// perFileTimeout bounds each individual object store write.
	perFileTimeout = 60 * time.Second

	thumbnailMaxSize = 320
	thumbWebPQuality = 70
)

// extByMIME maps an accepted sniffed content type to the stored extension.
var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadFile is one file in a submission batch.
type UploadFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// UploadService pushes validated image batches into the object store. All
// files validate before any network call; any mid-batch failure rolls back
// the objects already written so no orphans survive a partial upload.
type UploadService struct {
	store storage.ObjectStore

	// now is swapped out in tests for deterministic keys.
	now func() time.Time
}

// NewUploadService returns a new UploadService.
func NewUploadService(store storage.ObjectStore) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// UploadBatch validates and stores up to four images for the owner, returning
// their public URLs in input order. The first URL is the submission's cover.
func (s *UploadService) UploadBatch(ctx context.Context, ownerID uint, files []UploadFile) ([]string, error) {
	if ownerID == 0 {
		return nil, models.NewAuthError("You must be logged in")
	}
	if len(files) == 0 {
		return nil, models.NewValidationError("No files uploaded")
	}
	if len(files) > validation.MaxImages {
		return nil, models.NewValidationError(fmt.Sprintf("Max %d images allowed", validation.MaxImages))
	}

	// Validate the whole batch before touching the network. The declared
	// content type is ignored; the bytes decide.
	types := make([]string, len(files))
	for i, f := range files {
		if len(f.Content) == 0 {
			observability.ImageUploads.WithLabelValues("rejected").Inc()
			return nil, models.NewUploadError(f.Name, fmt.Errorf("file is empty"))
		}
		if len(f.Content) > MaxUploadBytes {
			observability.ImageUploads.WithLabelValues("rejected").Inc()
			return nil, models.NewUploadError(f.Name, fmt.Errorf("file exceeds 5MB limit"))
		}
		sniffed := http.DetectContentType(f.Content)
		if _, ok := extByMIME[sniffed]; !ok {
			observability.ImageUploads.WithLabelValues("rejected").Inc()
			return nil, models.NewUploadError(f.Name, fmt.Errorf("unsupported image type %s", sniffed))
		}
		types[i] = sniffed
	}

	batchStamp := s.now().UnixMilli()
	keys := make([]string, len(files))
	for i := range files {
		keys[i] = fmt.Sprintf("%d/%d-%d%s", ownerID, batchStamp, i, extByMIME[types[i]])
	}

	// One goroutine per file, results joined by index so output order always
	// matches input order.
	var wg sync.WaitGroup
	errs := make([]error, len(files))
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fileCtx, cancel := context.WithTimeout(ctx, perFileTimeout)
			defer cancel()
			errs[i] = s.store.Upload(fileCtx, keys[i], bytes.NewReader(files[i].Content), int64(len(files[i].Content)), types[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		observability.ImageUploads.WithLabelValues("failed").Inc()
		s.rollback(keys, errs)
		return nil, models.NewUploadError(files[i].Name, err)
	}

	urls := make([]string, len(files))
	for i, key := range keys {
		urls[i] = s.store.PublicURL(key)
		observability.ImageUploads.WithLabelValues("accepted").Inc()
		observability.ImageUploadBytes.Observe(float64(len(files[i].Content)))
	}

	// Best-effort thumbnail of the cover. A decode or encode failure never
	// fails the submission.
	s.storeThumbnail(ctx, keys[0], files[0].Content)

	return urls, nil
}

// rollback deletes the sibling objects that did upload so a failed batch
// leaves nothing behind.
func (s *UploadService) rollback(keys []string, errs []error) {
	ctx, cancel := context.WithTimeout(context.Background(), perFileTimeout)
	defer cancel()

	for i, err := range errs {
		if err != nil {
			continue
		}
		if rmErr := s.store.Remove(ctx, keys[i]); rmErr != nil {
			slog.Warn("failed to clean up partial upload", "key", keys[i], "error", rmErr)
		}
	}
}

// storeThumbnail decodes the cover image, scales it down, and stores a WebP
// rendition under <key>-thumb.webp.
func (s *UploadService) storeThumbnail(ctx context.Context, coverKey string, content []byte) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		slog.Debug("thumbnail skipped, cover not decodable", "key", coverKey, "error", err)
		return
	}

	thumb := resizeToFit(img, thumbnailMaxSize)
	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: thumbWebPQuality}); err != nil {
		slog.Debug("thumbnail encode failed", "key", coverKey, "error", err)
		return
	}

	thumbCtx, cancel := context.WithTimeout(ctx, perFileTimeout)
	defer cancel()

	key := coverKey + "-thumb.webp"
	if err := s.store.Upload(thumbCtx, key, &buf, int64(buf.Len()), "image/webp"); err != nil {
		slog.Warn("thumbnail upload failed", "key", key, "error", err)
	}
}

// resizeToFit scales the image down to fit within max on its longest side,
// preserving aspect ratio. Images already small enough pass through.
func resizeToFit(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
