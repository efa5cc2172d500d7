package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"stitchhub/internal/models"
	"stitchhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClockUploadService(store *testutil.MemoryStore) *UploadService {
	svc := NewUploadService(store)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestUploadService_UploadBatch_OrderPreserved(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := fixedClockUploadService(store)

	png := testutil.TinyPNG(t, 8, 8)
	jpg := testutil.TinyJPEG(t, 8, 8)
	files := []UploadFile{
		{Name: "first.png", ContentType: "image/png", Content: png},
		{Name: "second.jpg", ContentType: "image/jpeg", Content: jpg},
		{Name: "third.png", ContentType: "image/png", Content: png},
	}

	urls, err := svc.UploadBatch(context.Background(), 5, files)
	require.NoError(t, err)
	require.Len(t, urls, 3)

	assert.Equal(t, "https://cdn.test/5/1700000000000-0.png", urls[0])
	assert.Equal(t, "https://cdn.test/5/1700000000000-1.jpg", urls[1])
	assert.Equal(t, "https://cdn.test/5/1700000000000-2.png", urls[2])

	assert.NotNil(t, store.Object("5/1700000000000-1.jpg"))
	assert.NotNil(t, store.Object("5/1700000000000-0.png-thumb.webp"), "cover thumbnail is stored alongside")
}

func TestUploadService_UploadBatch_EmptyInput(t *testing.T) {
	svc := fixedClockUploadService(testutil.NewMemoryStore())

	_, err := svc.UploadBatch(context.Background(), 5, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No files uploaded")
}

func TestUploadService_UploadBatch_Anonymous(t *testing.T) {
	svc := fixedClockUploadService(testutil.NewMemoryStore())

	_, err := svc.UploadBatch(context.Background(), 0, []UploadFile{{Name: "a.png", Content: testutil.TinyPNG(t, 2, 2)}})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_ERROR", appErr.Code)
}

func TestUploadService_UploadBatch_TooManyFiles(t *testing.T) {
	svc := fixedClockUploadService(testutil.NewMemoryStore())
	png := testutil.TinyPNG(t, 2, 2)

	files := make([]UploadFile, 5)
	for i := range files {
		files[i] = UploadFile{Name: fmt.Sprintf("f%d.png", i), Content: png}
	}

	_, err := svc.UploadBatch(context.Background(), 1, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Max 4 images allowed")
}

func TestUploadService_UploadBatch_RejectsBeforeAnyUpload(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := fixedClockUploadService(store)
	png := testutil.TinyPNG(t, 2, 2)

	tests := []struct {
		name   string
		files  []UploadFile
		wantIn string
	}{
		{
			name: "oversized file named in error",
			files: []UploadFile{
				{Name: "ok.png", Content: png},
				{Name: "huge.png", Content: append(png, make([]byte, MaxUploadBytes)...)},
			},
			wantIn: "huge.png",
		},
		{
			name: "wrong type named in error",
			files: []UploadFile{
				{Name: "ok.png", Content: png},
				{Name: "notes.txt", Content: []byte("plain text, definitely not an image")},
			},
			wantIn: "notes.txt",
		},
		{
			name:   "empty file",
			files:  []UploadFile{{Name: "void.png", Content: nil}},
			wantIn: "void.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadBatch(context.Background(), 1, tt.files)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "UPLOAD_ERROR", appErr.Code)
			assert.Empty(t, store.Keys(), "validation failures must not reach the store")
		})
	}
}

func TestUploadService_UploadBatch_SniffsContentNotHeader(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := fixedClockUploadService(store)

	// Declared as PNG but carries text bytes; the sniffed type wins.
	_, err := svc.UploadBatch(context.Background(), 1, []UploadFile{
		{Name: "fake.png", ContentType: "image/png", Content: []byte("<html>not an image</html>")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake.png")
	assert.Empty(t, store.Keys())
}

func TestUploadService_UploadBatch_PartialFailureRollsBack(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.FailKeys = []string{"-1."}
	svc := fixedClockUploadService(store)
	png := testutil.TinyPNG(t, 2, 2)

	_, err := svc.UploadBatch(context.Background(), 9, []UploadFile{
		{Name: "a.png", Content: png},
		{Name: "b.png", Content: png},
		{Name: "c.png", Content: png},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.png", "the failing file is named")
	assert.Empty(t, store.Keys(), "siblings uploaded before the failure are removed")
}

func TestUploadService_ThumbnailFailureDoesNotFailBatch(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.FailKeys = []string{"-thumb.webp"}
	svc := fixedClockUploadService(store)

	urls, err := svc.UploadBatch(context.Background(), 2, []UploadFile{
		{Name: "cover.png", Content: testutil.TinyPNG(t, 2, 2)},
	})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.True(t, strings.HasPrefix(urls[0], "https://cdn.test/2/"))
}

func TestUploadService_LargeCoverGetsScaledThumbnail(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := fixedClockUploadService(store)

	urls, err := svc.UploadBatch(context.Background(), 3, []UploadFile{
		{Name: "wide.png", Content: testutil.TinyPNG(t, 800, 400)},
	})
	require.NoError(t, err)
	require.Len(t, urls, 1)

	thumb := store.Object("3/1700000000000-0.png-thumb.webp")
	require.NotNil(t, thumb)
	assert.NotEmpty(t, thumb)
	assert.True(t, bytes.HasPrefix(thumb, []byte("RIFF")), "thumbnail is WebP encoded")
}
