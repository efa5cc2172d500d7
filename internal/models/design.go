package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultTag labels a design whose category is missing.
const DefaultTag = "Design"

// StringList stores an ordered list of URLs as a JSON-encoded text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported StringList source type %T", src)
	}
}

// Design represents a stored gallery submission in the designs table.
type Design struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	PromptContent string         `gorm:"type:text;not null" json:"prompt_content"`
	Category      string         `gorm:"index" json:"category"`
	ImageURL      string         `gorm:"not null" json:"image_url"`
	ImageURLs     StringList     `gorm:"type:text" json:"image_urls"`
	CodeSnippet   string         `gorm:"type:text" json:"code_snippet"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PromptKind discriminates real content cards from the pinned promotional card.
type PromptKind string

const (
	PromptKindCard  PromptKind = "card"
	PromptKindPromo PromptKind = "promo"
)

// Author is the denormalized display identity attached to a prompt card.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Prompt is the display model a design maps to. Stored designs carry a
// "db-<n>" identifier; synthesized entries use their own namespace, so ids are
// only unique within one loaded set.
type Prompt struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Tags        []string   `json:"tags"`
	Prompt      string     `json:"prompt"`
	Author      Author     `json:"author"`
	Image       string     `json:"image"`
	Gallery     []string   `json:"gallery"`
	CodeSnippet string     `json:"code_snippet,omitempty"`
	Kind        PromptKind `json:"kind"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsPromo reports whether this entry is the pinned call-to-action card.
func (p *Prompt) IsPromo() bool {
	return p.Kind == PromptKindPromo
}

// ToPrompt maps a stored design row (with joined author profile) into the
// display model: the category collapses to a single tag, the gallery falls
// back to the cover image, and a missing author resolves to the fallback
// avatar.
func (d *Design) ToPrompt() Prompt {
	tag := d.Category
	if tag == "" {
		tag = DefaultTag
	}

	gallery := []string(d.ImageURLs)
	if len(gallery) == 0 {
		gallery = []string{d.ImageURL}
	}

	name := d.User.Username
	if name == "" {
		name = "Unknown"
	}

	return Prompt{
		ID:          fmt.Sprintf("db-%d", d.ID),
		Title:       d.Title,
		Tags:        []string{tag},
		Prompt:      d.PromptContent,
		Author:      Author{Name: name, Avatar: d.User.Avatar()},
		Image:       d.ImageURL,
		Gallery:     gallery,
		CodeSnippet: d.CodeSnippet,
		Kind:        PromptKindCard,
		CreatedAt:   d.CreatedAt,
	}
}

// ParseDesignID normalizes a client-side identifier into the stored numeric
// id. Client lists merge two namespaces ("db-123" for store-backed rows and
// raw ids for synthesized entries), so the prefix is stripped before any
// store operation.
func ParseDesignID(id string) (uint, error) {
	raw := strings.TrimPrefix(id, "db-")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, NewValidationError("Invalid design ID")
	}
	return uint(n), nil
}

// PromoPrompt returns the pinned call-to-action card that always renders
// first in the feed. It is synthesized, never persisted and never deletable.
func PromoPrompt() Prompt {
	return Prompt{
		ID:     "promo-card",
		Title:  "Join the Workshop",
		Prompt: "Got a prompt that generates fire? Pin it to the board.",
		Kind:   PromptKindPromo,
	}
}
