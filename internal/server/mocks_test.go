package server

import (
	"context"

	"stitchhub/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDesignRepository is a testify mock for repository.DesignRepository.
type MockDesignRepository struct {
	mock.Mock
}

func (m *MockDesignRepository) Create(ctx context.Context, design *models.Design) error {
	args := m.Called(ctx, design)
	if args.Error(0) == nil && design.ID == 0 {
		design.ID = 1
	}
	return args.Error(0)
}

func (m *MockDesignRepository) GetByID(ctx context.Context, id uint) (*models.Design, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Design), args.Error(1)
}

func (m *MockDesignRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Design, int64, error) {
	args := m.Called(ctx, offset, limit)
	var designs []*models.Design
	if args.Get(0) != nil {
		designs = args.Get(0).([]*models.Design)
	}
	return designs, args.Get(1).(int64), args.Error(2)
}

func (m *MockDesignRepository) ListForOwner(ctx context.Context, ownerID uint) ([]*models.Design, error) {
	args := m.Called(ctx, ownerID)
	var designs []*models.Design
	if args.Get(0) != nil {
		designs = args.Get(0).([]*models.Design)
	}
	return designs, args.Error(1)
}

func (m *MockDesignRepository) Delete(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
