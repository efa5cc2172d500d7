package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stitchhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Design{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestDesign(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Design {
	t.Helper()

	design := &models.Design{
		Title:         title,
		PromptContent: "A prompt with enough content to describe the design in detail.",
		Category:      "Dashboard",
		ImageURL:      "https://cdn.example.com/" + title + ".webp",
		ImageURLs:     models.StringList{"https://cdn.example.com/" + title + ".webp"},
		UserID:        userID,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(design).Error)
	return design
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "stitcher", Email: "stitcher@example.com", Password: "secret-hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "stitcher", got.Username)

	byEmail, err := repo.GetByEmail(ctx, "stitcher@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.GetByUsername(ctx, "stitcher")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, user.ID, byUsername.ID)
}

func TestUserRepository_GetByEmail_NotFoundReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "first", Email: "dup@example.com", Password: "x"}))

	err := repo.Create(ctx, &models.User{Username: "second", Email: "dup@example.com", Password: "x"})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "renameme")
	user.Username = "renamed"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByUsername(ctx, "renamed")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestDesignRepository_CreatePreloadsAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDesignRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "author")
	design := &models.Design{
		Title:         "Analytics Dashboard",
		PromptContent: "Build a dark mode analytics dashboard with charts and a sidebar layout.",
		Category:      "Dashboard",
		ImageURL:      "https://cdn.example.com/a.webp",
		UserID:        user.ID,
	}

	require.NoError(t, repo.Create(ctx, design))
	assert.NotZero(t, design.ID)
	assert.Equal(t, "author", design.User.Username)
}

func TestDesignRepository_ListPage_OrderAndTotal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDesignRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "paginator")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createTestDesign(t, db, user.ID, fmt.Sprintf("design-%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, total, err := repo.ListPage(ctx, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page, 12)

	// Newest first.
	assert.Equal(t, "design-24", page[0].Title)
	assert.Equal(t, "design-13", page[11].Title)
	assert.Equal(t, "paginator", page[0].User.Username)

	last, total, err := repo.ListPage(ctx, 24, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, last, 1)
	assert.Equal(t, "design-00", last[0].Title)
}

func TestDesignRepository_ListPage_TieBreaksOnID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDesignRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "tied")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := createTestDesign(t, db, user.ID, "first", ts)
	second := createTestDesign(t, db, user.ID, "second", ts)

	page, _, err := repo.ListPage(ctx, 0, 12)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, second.ID, page[0].ID)
	assert.Equal(t, first.ID, page[1].ID)
}

func TestDesignRepository_ListForOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDesignRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createTestDesign(t, db, owner.ID, "mine-old", base)
	createTestDesign(t, db, other.ID, "theirs", base.Add(time.Minute))
	createTestDesign(t, db, owner.ID, "mine-new", base.Add(2*time.Minute))

	designs, err := repo.ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, designs, 2)
	assert.Equal(t, "mine-new", designs[0].Title)
	assert.Equal(t, "mine-old", designs[1].Title)
}

func TestDesignRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDesignRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "deleter")
	intruder := createTestUser(t, db, "intruder")
	design := createTestDesign(t, db, owner.ID, "doomed", time.Now())

	t.Run("not owner", func(t *testing.T) {
		err := repo.Delete(ctx, design.ID, intruder.ID)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "STORE_ERROR", appErr.Code)
	})

	t.Run("missing design", func(t *testing.T) {
		err := repo.Delete(ctx, 424242, owner.ID)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("owner succeeds", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, design.ID, owner.ID))

		var count int64
		require.NoError(t, db.Model(&models.Design{}).Where("id = ?", design.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
