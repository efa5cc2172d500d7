package server

import (
	"io"
	"mime/multipart"

	"stitchhub/internal/feed"
	"stitchhub/internal/models"
	"stitchhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/designs. Optional query parameters: limit, offset,
// tag (category filter), q (free-text search). The promotional card rides on
// the first page and never counts toward result_count.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, feed.DefaultPageSize)

	page, err := s.designService.Feed(c.Context(), p.Offset, p.Limit, c.Query("tag"), c.Query("q"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(page)
}

// ExportFeed handles GET /api/designs/export, streaming the full feed as one
// JSON array by walking every page.
func (s *Server) ExportFeed(c *fiber.Ctx) error {
	all := make([]models.Prompt, 0, feed.DefaultPageSize)
	err := s.designService.ForEachPage(c.Context(), feed.DefaultPageSize, func(page []models.Prompt) error {
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="designs.json"`)
	return c.JSON(all)
}

// GetDesign handles GET /api/designs/:id.
func (s *Server) GetDesign(c *fiber.Ctx) error {
	prompt, err := s.designService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(prompt)
}

// CreateDesign handles POST /api/designs. The body is multipart form data:
// text fields title, prompt, category, code_snippet plus one to four files
// under the "images" field, in display order.
func (s *Server) CreateDesign(c *fiber.Ctx) error {
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
	}

	files, err := readUploadFiles(form.File["images"])
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	design, err := s.designService.Submit(c.Context(), service.SubmitDesignInput{
		UserID:        userID,
		Title:         formValue(form, "title"),
		PromptContent: formValue(form, "prompt"),
		Category:      formValue(form, "category"),
		CodeSnippet:   formValue(form, "code_snippet"),
		Files:         files,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	prompt := design.ToPrompt()
	return c.Status(fiber.StatusCreated).JSON(prompt)
}

// DeleteDesign handles DELETE /api/designs/:id. Ownership is enforced by the
// repository, so a stolen id deletes nothing.
func (s *Server) DeleteDesign(c *fiber.Ctx) error {
	if err := s.designService.Delete(c.Context(), c.Params("id"), currentUserID(c)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Design deleted"})
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// readUploadFiles loads the multipart file headers into memory in their
// submitted order.
func readUploadFiles(headers []*multipart.FileHeader) ([]service.UploadFile, error) {
	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, models.NewUploadError(fh.Filename, err)
		}

		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, models.NewUploadError(fh.Filename, err)
		}

		files = append(files, service.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}
