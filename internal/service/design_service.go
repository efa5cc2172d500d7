package service

import (
	"context"

	"stitchhub/internal/cache"
	"stitchhub/internal/feed"
	"stitchhub/internal/models"
	"stitchhub/internal/observability"
	"stitchhub/internal/repository"
	"stitchhub/internal/validation"
)

// DesignService composes the feed, the submission pipeline, and per-user
// collections on top of the design repository and the upload service.
type DesignService struct {
	designRepo repository.DesignRepository
	uploads    *UploadService
}

// NewDesignService returns a new DesignService.
func NewDesignService(designRepo repository.DesignRepository, uploads *UploadService) *DesignService {
	return &DesignService{designRepo: designRepo, uploads: uploads}
}

// FeedPage is one page of the gallery feed after filtering.
type FeedPage struct {
	Items       []models.Prompt `json:"items"`
	Total       int64           `json:"total"`
	ResultCount int             `json:"result_count"`
	HasMore     bool            `json:"has_more"`
}

// cachedPage is the raw page shape stored in Redis before filtering.
type cachedPage struct {
	Prompts []models.Prompt `json:"prompts"`
	Total   int64           `json:"total"`
}

// Feed assembles one feed page: fetch a page of stored designs (the first
// unfiltered page is served cache-aside from Redis), map rows to prompt
// cards, pin the promotional card at the top of page zero, then apply the
// tag and query filters. The promotional card never counts toward
// ResultCount and is exempt from filtering.
func (s *DesignService) Feed(ctx context.Context, offset, limit int, tagFilter, query string) (*FeedPage, error) {
	if limit <= 0 {
		limit = feed.DefaultPageSize
	}

	var page cachedPage
	var err error
	if offset == 0 && limit == feed.DefaultPageSize {
		err = cache.Aside(ctx, cache.FeedFirstPage, &page, cache.FeedPageTTL, func() error {
			p, fetchErr := s.fetchPage(ctx, offset, limit)
			if fetchErr != nil {
				return fetchErr
			}
			page = *p
			return nil
		})
	} else {
		var p *cachedPage
		p, err = s.fetchPage(ctx, offset, limit)
		if p != nil {
			page = *p
		}
	}
	if err != nil {
		return nil, err
	}

	prompts := page.Prompts
	if offset == 0 {
		prompts = append([]models.Prompt{models.PromoPrompt()}, prompts...)
	}

	filtered := feed.Filter(prompts, tagFilter, query)

	return &FeedPage{
		Items:       filtered,
		Total:       page.Total,
		ResultCount: feed.ResultCount(filtered),
		HasMore:     feed.HasMorePage(offset, len(page.Prompts), page.Total),
	}, nil
}

func (s *DesignService) fetchPage(ctx context.Context, offset, limit int) (*cachedPage, error) {
	designs, total, err := s.designRepo.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	prompts := make([]models.Prompt, 0, len(designs))
	for _, d := range designs {
		prompts = append(prompts, d.ToPrompt())
	}
	return &cachedPage{Prompts: prompts, Total: total}, nil
}

// ForEachPage walks the entire feed newest first, invoking fn once per page
// until the pager reports no more data or fn returns an error.
func (s *DesignService) ForEachPage(ctx context.Context, pageSize int, fn func([]models.Prompt) error) error {
	pager := feed.NewPager(pageSize)

	for pager.Begin() {
		page, err := s.fetchPage(ctx, pager.Offset(), pager.PageSize())
		if err != nil {
			pager.Fail()
			return err
		}
		pager.Complete(len(page.Prompts), page.Total, true)

		if len(page.Prompts) == 0 {
			return nil
		}
		if err := fn(page.Prompts); err != nil {
			return err
		}
	}
	return nil
}

// SubmitDesignInput carries everything a new submission needs.
type SubmitDesignInput struct {
	UserID        uint
	Title         string
	PromptContent string
	Category      string
	CodeSnippet   string
	Files         []UploadFile
}

// Submit runs the full submission pipeline: validate preconditions, upload
// the image batch, then persist the design referencing the stored URLs. The
// first uploaded image becomes the cover.
func (s *DesignService) Submit(ctx context.Context, in SubmitDesignInput) (*models.Design, error) {
	if err := validation.ValidateSubmission(validation.Submission{
		UserID:        in.UserID,
		Title:         in.Title,
		PromptContent: in.PromptContent,
		Category:      in.Category,
		ImageCount:    len(in.Files),
	}); err != nil {
		return nil, err
	}

	urls, err := s.uploads.UploadBatch(ctx, in.UserID, in.Files)
	if err != nil {
		return nil, err
	}

	design := &models.Design{
		Title:         in.Title,
		PromptContent: in.PromptContent,
		Category:      in.Category,
		ImageURL:      urls[0],
		ImageURLs:     models.StringList(urls),
		CodeSnippet:   in.CodeSnippet,
		UserID:        in.UserID,
	}
	if err := s.designRepo.Create(ctx, design); err != nil {
		return nil, err
	}

	observability.DesignsSubmitted.WithLabelValues(in.Category).Inc()
	return design, nil
}

// Get resolves a single design by its client-facing identifier.
func (s *DesignService) Get(ctx context.Context, id string) (*models.Prompt, error) {
	numeric, err := models.ParseDesignID(id)
	if err != nil {
		return nil, err
	}

	design, err := s.designRepo.GetByID(ctx, numeric)
	if err != nil {
		return nil, err
	}
	prompt := design.ToPrompt()
	return &prompt, nil
}

// ListForOwner returns a user's own designs as prompt cards, newest first.
func (s *DesignService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Prompt, error) {
	designs, err := s.designRepo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	prompts := make([]models.Prompt, 0, len(designs))
	for _, d := range designs {
		prompts = append(prompts, d.ToPrompt())
	}
	return prompts, nil
}

// Delete removes one of the caller's own designs. The identifier is
// normalized first; synthesized entries such as the promotional card have no
// numeric form and are rejected before any store call.
func (s *DesignService) Delete(ctx context.Context, id string, ownerID uint) error {
	if ownerID == 0 {
		return models.NewAuthError("You must be logged in")
	}

	numeric, err := models.ParseDesignID(id)
	if err != nil {
		return err
	}
	return s.designRepo.Delete(ctx, numeric, ownerID)
}
