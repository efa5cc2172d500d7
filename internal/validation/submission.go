package validation

import (
	"unicode/utf8"

	"stitchhub/internal/models"
)

// Categories is the fixed set a submission must choose from.
var Categories = []string{
	"Dashboard",
	"Mobile App",
	"Landing Page",
	"E-commerce",
	"Portfolio",
	"Blog",
	"SaaS",
	"Other",
}

const (
	MinTitleLen  = 3
	MaxTitleLen  = 100
	MinPromptLen = 50
	MaxPromptLen = 2000
	MaxImages    = 4
)

// Submission holds the client-supplied fields checked before any upload or
// write is attempted.
type Submission struct {
	UserID        uint
	Title         string
	PromptContent string
	Category      string
	ImageCount    int
}

// ValidateSubmission runs the precondition checks in a fixed order,
// short-circuiting on the first failure. None of these checks touch the
// network.
func ValidateSubmission(s Submission) error {
	if s.UserID == 0 {
		return models.NewAuthError("You must be logged in")
	}
	if s.ImageCount == 0 {
		return models.NewValidationError("Please upload at least one image")
	}
	if s.ImageCount > MaxImages {
		return models.NewValidationError("Max 4 images allowed")
	}
	// Bounds are in characters, not bytes, so multibyte titles measure right.
	titleLen := utf8.RuneCountInString(s.Title)
	if titleLen < MinTitleLen {
		return models.NewValidationError("Title must be at least 3 characters")
	}
	if titleLen > MaxTitleLen {
		return models.NewValidationError("Title too long (max 100 characters)")
	}
	promptLen := utf8.RuneCountInString(s.PromptContent)
	if promptLen < MinPromptLen {
		return models.NewValidationError("Prompt must be at least 50 characters")
	}
	if promptLen > MaxPromptLen {
		return models.NewValidationError("Prompt too long (max 2000 characters)")
	}
	if !IsValidCategory(s.Category) {
		return models.NewValidationError("Please select a category")
	}
	return nil
}

// IsValidCategory reports whether the category is one of the fixed set.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
