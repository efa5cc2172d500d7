// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stitchhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumDesigns  int
	MaxDays     int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildDesign constructs a design struct for the given owner but does not
// persist it. Useful for batching.
func (f *Factory) BuildDesign(user *models.User, category string, overrides ...func(*models.Design)) *models.Design {
	cover := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	gallery := models.StringList{cover}
	extra := gofakeit.Number(0, 3)
	for i := 0; i < extra; i++ {
		gallery = append(gallery, fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
	}

	design := &models.Design{
		Title:         gofakeit.Sentence(4),
		PromptContent: gofakeit.Paragraph(1, 3, 8, " "),
		Category:      category,
		ImageURL:      cover,
		ImageURLs:     gallery,
		UserID:        user.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	design.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(design)
	}
	return design
}

// CreateDesign constructs and persists a sample `models.Design` for the
// given user.
func (f *Factory) CreateDesign(user *models.User, category string, overrides ...func(*models.Design)) (*models.Design, error) {
	design := f.BuildDesign(user, category, overrides...)

	if f.opts.DryRun {
		f.nextID++
		design.ID = f.nextID
		log.Printf("[dry-run] CreateDesign: category=%s user=%d title=%q", design.Category, design.UserID, design.Title)
		return design, nil
	}

	if err := f.db.Create(design).Error; err != nil {
		return nil, err
	}
	return design, nil
}

// CreateDesignsBatch persists multiple designs in a single DB call when possible.
func (f *Factory) CreateDesignsBatch(designs []*models.Design) error {
	if f.opts.DryRun {
		for _, d := range designs {
			f.nextID++
			d.ID = f.nextID
		}
		log.Printf("[dry-run] CreateDesignsBatch: %d designs (no DB write)", len(designs))
		return nil
	}
	return f.db.Create(&designs).Error
}
