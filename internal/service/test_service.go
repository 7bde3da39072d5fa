package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/gate"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	// ErrTestNotFound is the "not found"-shaped denial: to a non-admin an
	// unpublished test and a missing test are indistinguishable.
	ErrTestNotFound = errors.New("test not found")
	ErrNoQuestions  = errors.New("test has no questions")
)

// TestService handles test curation, visibility gating, and the Redis
// payload cache for published tests.
type TestService struct {
	testRepo *repository.TestRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(testRepo *repository.TestRepository, rdb *redis.Client, log zerolog.Logger) *TestService {
	return &TestService{
		testRepo: testRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "test_service").Logger(),
	}
}

// Create inserts a new, unpublished test.
func (s *TestService) Create(ctx context.Context, req *model.SaveTestRequest) (*model.Test, error) {
	t := &model.Test{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		QuestionIDs:     req.QuestionIDs,
		Marking: model.MarkingScheme{
			MarksPerCorrect: req.MarksPerCorrect,
			NegativeMarks:   req.NegativeMarks,
		},
	}
	if err := s.testRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	return t, nil
}

// Update replaces a test's fields and question list, then refreshes the
// payload cache if the test is published.
func (s *TestService) Update(ctx context.Context, id uuid.UUID, req *model.SaveTestRequest) (*model.Test, error) {
	t := &model.Test{
		ID:              id,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		QuestionIDs:     req.QuestionIDs,
		Marking: model.MarkingScheme{
			MarksPerCorrect: req.MarksPerCorrect,
			NegativeMarks:   req.NegativeMarks,
		},
	}
	if err := s.testRepo.Update(ctx, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("update test: %w", err)
	}

	stored, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.IsPublished {
		if err := s.warmPayloadCache(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("test_id", id.String()).Msg("Payload cache refresh failed")
		}
	}
	return stored, nil
}

// Delete removes a test and drops its cached payload.
func (s *TestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.testRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.rdb.Del(ctx, config.CacheKey.TestPayloadKey(id.String()))
	return nil
}

// GetByID retrieves a test regardless of publication. Admin paths only.
func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListAll retrieves every test. Admin paths only.
func (s *TestService) ListAll(ctx context.Context) ([]model.Test, error) {
	return s.testRepo.ListAll(ctx)
}

// ListPublished retrieves the tests visible on the student dashboard.
func (s *TestService) ListPublished(ctx context.Context) ([]model.Test, error) {
	return s.testRepo.ListPublished(ctx)
}

// TogglePublish flips a test's publication flag. Publishing warms the Redis
// payload cache before the flag flips so the first student never races a
// cold cache; unpublishing drops it.
func (s *TestService) TogglePublish(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.IsPublished {
		if len(t.QuestionIDs) == 0 {
			return nil, ErrNoQuestions
		}
		if err := s.warmPayloadCache(ctx, id); err != nil {
			return nil, fmt.Errorf("warm payload cache: %w", err)
		}
	} else {
		s.rdb.Del(ctx, config.CacheKey.TestPayloadKey(id.String()))
	}

	if err := s.testRepo.SetPublished(ctx, id, !t.IsPublished); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	t.IsPublished = !t.IsPublished

	s.log.Info().
		Str("test_id", id.String()).
		Bool("published", t.IsPublished).
		Msg("Test publication toggled")
	return t, nil
}

// GetVisible retrieves a complete test through the reachability gate: admins
// reach any test, others only published ones, and every denial is shaped as
// not-found.
func (s *TestService) GetVisible(ctx context.Context, role model.Role, id uuid.UUID) (*model.CompleteTest, error) {
	eval := gate.NewEvaluator()
	eval.UpdateFacts(gate.Facts{IdentityPresent: true, RoleLoaded: true, Role: role})

	t, err := s.testRepo.GetComplete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if eval.TestGate(false, false) != gate.TestGranted {
				return nil, ErrTestNotFound
			}
		}
		return nil, err
	}

	if eval.TestGate(true, t.IsPublished) != gate.TestGranted {
		return nil, ErrTestNotFound
	}
	return t, nil
}

// GetPayload returns the student-facing payload for a published test,
// serving from Redis with a PostgreSQL fallback that self-heals the cache.
func (s *TestService) GetPayload(ctx context.Context, id uuid.UUID) (*model.TestPayload, error) {
	key := config.CacheKey.TestPayloadKey(id.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		payload := &model.TestPayload{}
		if err := json.Unmarshal([]byte(raw), payload); err == nil {
			return payload, nil
		}
		// Corrupt cache entry; fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get payload cache: %w", err)
	}

	ct, err := s.testRepo.GetComplete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	if !ct.IsPublished {
		return nil, ErrTestNotFound
	}

	payload := buildPayload(ct)
	if raw, err := json.Marshal(payload); err == nil {
		_ = s.rdb.Set(ctx, key, raw, 0).Err()
	}
	return payload, nil
}

// PrewarmAllCaches loads every published test's payload into Redis. Called
// once at startup before traffic is accepted.
func (s *TestService) PrewarmAllCaches(ctx context.Context) error {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published: %w", err)
	}
	for _, t := range tests {
		if err := s.warmPayloadCache(ctx, t.ID); err != nil {
			s.log.Warn().Err(err).Str("test_id", t.ID.String()).Msg("Prewarm failed for test")
			continue
		}
	}
	s.log.Info().Int("count", len(tests)).Msg("Published test payloads prewarmed")
	return nil
}

func (s *TestService) warmPayloadCache(ctx context.Context, id uuid.UUID) error {
	ct, err := s.testRepo.GetComplete(ctx, id)
	if err != nil {
		return fmt.Errorf("get complete test: %w", err)
	}
	if len(ct.Questions) == 0 {
		return ErrNoQuestions
	}

	raw, err := json.Marshal(buildPayload(ct))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.TestPayloadKey(id.String()), raw, 0).Err()
}

// StudentView strips correct options from an already-fetched complete test.
// Used when the caller has gone through GetVisible and holds the test.
func (s *TestService) StudentView(ct *model.CompleteTest) *model.TestPayload {
	return buildPayload(ct)
}

// buildPayload strips correct options from a complete test.
func buildPayload(ct *model.CompleteTest) *model.TestPayload {
	questions := make([]model.QuestionForStudent, len(ct.Questions))
	for i, q := range ct.Questions {
		questions[i] = model.QuestionForStudent{ID: q.ID, ImageURL: q.ImageURL}
	}
	return &model.TestPayload{
		TestID:          ct.ID,
		Name:            ct.Name,
		DurationMinutes: ct.DurationMinutes,
		Marking:         ct.Marking,
		Questions:       questions,
	}
}
