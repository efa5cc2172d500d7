package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stitchhub/internal/models"
	"stitchhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func feedRows(n int) []*models.Design {
	rows := make([]*models.Design, n)
	for i := range rows {
		id := uint(n - i)
		rows[i] = &models.Design{
			ID:            id,
			Title:         "Design " + strings.Repeat("I", int(id)),
			PromptContent: "A dark mode dashboard with charts, sidebar navigation and KPI tiles.",
			Category:      "Dashboard",
			ImageURL:      "https://cdn.test/cover.png",
			UserID:        1,
			User:          models.User{ID: 1, Username: "maker"},
			CreatedAt:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
		}
	}
	return rows
}

func TestGetFeed(t *testing.T) {
	_, app, _, designRepo := newTestServer(t)

	t.Run("first page pins promo", func(t *testing.T) {
		designRepo.On("ListPage", mock.Anything, 0, 12).Return(feedRows(2), int64(2), nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Items       []models.Prompt `json:"items"`
			Total       int64           `json:"total"`
			ResultCount int             `json:"result_count"`
			HasMore     bool            `json:"has_more"`
		}
		decodeBody(t, resp, &body)

		require.Len(t, body.Items, 3)
		assert.Equal(t, "promo-card", body.Items[0].ID)
		assert.Equal(t, 2, body.ResultCount)
		assert.False(t, body.HasMore)
	})

	t.Run("query filter applies", func(t *testing.T) {
		designRepo.On("ListPage", mock.Anything, 0, 12).Return(feedRows(2), int64(2), nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/?q=zzzz", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Items       []models.Prompt `json:"items"`
			ResultCount int             `json:"result_count"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Items, 1, "only the promo card survives a no-match query")
		assert.Equal(t, 0, body.ResultCount)
	})

	t.Run("later page has no promo", func(t *testing.T) {
		designRepo.On("ListPage", mock.Anything, 12, 12).Return(feedRows(1), int64(13), nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/?offset=12", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Items []models.Prompt `json:"items"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Items, 1)
		assert.NotEqual(t, "promo-card", body.Items[0].ID)
	})
}

func TestGetDesign(t *testing.T) {
	_, app, _, designRepo := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		designRepo.On("GetByID", mock.Anything, uint(5)).Return(feedRows(5)[0], nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/db-5", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var prompt models.Prompt
		decodeBody(t, resp, &prompt)
		assert.Equal(t, "db-5", prompt.ID)
	})

	t.Run("not found", func(t *testing.T) {
		designRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Design", 99)).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/db-99", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/promo-card", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

// multipartSubmission builds a multipart body for POST /api/designs.
func multipartSubmission(t *testing.T, fields map[string]string, images ...[]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for i, img := range images {
		fw, err := w.CreateFormFile("images", "image-"+string(rune('a'+i))+".png")
		require.NoError(t, err)
		_, err = fw.Write(img)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateDesign(t *testing.T) {
	s, app, _, designRepo := newTestServer(t)

	validFields := map[string]string{
		"title":    "Analytics Dashboard",
		"prompt":   "Build a dark mode analytics dashboard with charts and a sidebar layout.",
		"category": "Dashboard",
	}

	t.Run("requires auth", func(t *testing.T) {
		body, contentType := multipartSubmission(t, validFields, testutil.TinyPNG(t, 4, 4))
		req := httptest.NewRequest(http.MethodPost, "/api/designs", body)
		req.Header.Set("Content-Type", contentType)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		designRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Design) bool {
			return d.UserID == 3 && d.Title == "Analytics Dashboard" && len(d.ImageURLs) == 2 &&
				d.ImageURL == d.ImageURLs[0]
		})).Return(nil).Once()

		png := testutil.TinyPNG(t, 4, 4)
		body, contentType := multipartSubmission(t, validFields, png, png)
		req := httptest.NewRequest(http.MethodPost, "/api/designs", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, 3, "maker"))

		resp := doRequest(t, app, req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var prompt models.Prompt
		decodeBody(t, resp, &prompt)
		assert.Equal(t, "db-1", prompt.ID)
		assert.Len(t, prompt.Gallery, 2)
	})

	t.Run("no images", func(t *testing.T) {
		body, contentType := multipartSubmission(t, validFields)
		req := httptest.NewRequest(http.MethodPost, "/api/designs", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, 3, "maker"))

		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("short title", func(t *testing.T) {
		fields := map[string]string{
			"title":    "Hi",
			"prompt":   validFields["prompt"],
			"category": "Dashboard",
		}
		body, contentType := multipartSubmission(t, fields, testutil.TinyPNG(t, 4, 4))
		req := httptest.NewRequest(http.MethodPost, "/api/designs", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, 3, "maker"))

		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteDesign(t *testing.T) {
	s, app, _, designRepo := newTestServer(t)

	t.Run("requires auth", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodDelete, "/api/designs/db-4", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("owner deletes", func(t *testing.T) {
		designRepo.On("Delete", mock.Anything, uint(4), uint(3)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/designs/db-4", nil)
		req.Header.Set("Authorization", bearerFor(t, s, 3, "maker"))
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		designRepo.On("Delete", mock.Anything, uint(4), uint(8)).
			Return(models.NewStoreError("You can only delete your own designs", nil)).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/designs/db-4", nil)
		req.Header.Set("Authorization", bearerFor(t, s, 8, "intruder"))
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("promo card is not deletable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/designs/promo-card", nil)
		req.Header.Set("Authorization", bearerFor(t, s, 3, "maker"))
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExportFeed(t *testing.T) {
	_, app, _, designRepo := newTestServer(t)

	designRepo.On("ListPage", mock.Anything, 0, 12).Return(feedRows(12), int64(13), nil).Once()
	designRepo.On("ListPage", mock.Anything, 12, 12).Return(feedRows(1), int64(13), nil).Once()

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/designs/export", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "designs.json")

	var all []models.Prompt
	decodeBody(t, resp, &all)
	assert.Len(t, all, 13)
	designRepo.AssertExpectations(t)
}
