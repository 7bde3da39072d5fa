package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/conceptdelta/examdesk/internal/gate"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ProfileService handles profile completion and the one-shot admin-visit
// flag.
type ProfileService struct {
	userRepo *repository.UserRepository
	log      zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo *repository.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		log:      log.With().Str("component", "profile_service").Logger(),
	}
}

// Get retrieves a user's profile. The second return value distinguishes a
// resolved absence (false, nil error) from a fetch failure — the profile
// gate depends on that distinction.
func (s *ProfileService) Get(ctx context.Context, userID int) (*model.Profile, bool, error) {
	p, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get profile: %w", err)
	}
	return p, true, nil
}

// Save creates or updates the caller's profile. The admin-visited flag
// lives on the account, so a profile save can never touch it.
func (s *ProfileService) Save(ctx context.Context, userID int, req *model.SaveProfileRequest) (*model.Profile, error) {
	p := &model.Profile{
		UserID:        userID,
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		UserClass:     req.UserClass,
	}
	if err := s.userRepo.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// HasVisitedAdmin reads the account's admin-visit flag.
func (s *ProfileService) HasVisitedAdmin(ctx context.Context, userID int) (bool, error) {
	return s.userRepo.HasVisitedAdmin(ctx, userID)
}

// MarkAdminVisited fires the one-shot "mark visited" write. The repository
// guarantees monotonicity; a repeated call is a no-op and reports false.
func (s *ProfileService) MarkAdminVisited(ctx context.Context, userID int) (bool, error) {
	first, err := s.userRepo.MarkAdminVisited(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("mark admin visited: %w", err)
	}
	if first {
		s.log.Info().Int("user_id", userID).Msg("Admin panel visited for the first time")
	}
	return first, nil
}

// BuildFacts assembles a fully-resolved fact snapshot for the gate
// evaluator. Because the backend fetches everything before returning, every
// Loaded flag is true in the snapshot; the unknown states exist for callers
// that feed facts in incrementally.
func (s *ProfileService) BuildFacts(ctx context.Context, userID int, role model.Role) (gate.Facts, error) {
	_, exists, err := s.Get(ctx, userID)
	if err != nil {
		return gate.Facts{}, err
	}
	visited, err := s.HasVisitedAdmin(ctx, userID)
	if err != nil {
		return gate.Facts{}, err
	}
	return gate.Facts{
		IdentityPresent: true,
		ProfileLoaded:   true,
		ProfileExists:   exists,
		RoleLoaded:      true,
		Role:            role,
		VisitedLoaded:   true,
		AdminVisited:    visited,
	}, nil
}

// BuildEvaluator returns a gate evaluator primed with the caller's resolved
// facts.
func (s *ProfileService) BuildEvaluator(ctx context.Context, userID int, role model.Role) (*gate.Evaluator, error) {
	facts, err := s.BuildFacts(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	eval := gate.NewEvaluator()
	eval.UpdateFacts(facts)
	return eval, nil
}
