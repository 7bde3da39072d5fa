package service

import (
	"context"
	"errors"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserService handles account business logic.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account with the user role. New accounts start as
// plain users; admins are bootstrapped via the create-admin CLI.
func (s *UserService) Register(ctx context.Context, email, passwordHash string) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	u := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves an account by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// GetByID retrieves an account by id.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListWithProfiles retrieves all accounts with their profiles for the admin
// users view.
func (s *UserService) ListWithProfiles(ctx context.Context) ([]repository.UserWithProfile, error) {
	return s.userRepo.ListWithProfiles(ctx)
}
