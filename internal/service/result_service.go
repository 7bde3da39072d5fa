package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ResultService accepts submitted results onto the persistence queue and
// reads persisted results back out of PostgreSQL. The queue push is the
// submission's commit point: if it fails the attempt rolls back and the
// student can retry.
type ResultService struct {
	resultRepo *repository.ResultRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(resultRepo *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "result_service").Logger(),
	}
}

// SubmitResult enqueues a scored result for asynchronous persistence.
// Implements the controller's sink contract.
func (s *ResultService) SubmitResult(ctx context.Context, result *model.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).
			Int("user_id", result.UserID).
			Str("test_id", result.TestID.String()).
			Msg("Result enqueue failed")
		return fmt.Errorf("enqueue result: %w", err)
	}
	return nil
}

// ListMine retrieves a user's persisted results, most recent first.
func (s *ResultService) ListMine(ctx context.Context, userID int) ([]model.Result, error) {
	return s.resultRepo.ListByUser(ctx, userID)
}

// ListAll retrieves every result. Admin paths only.
func (s *ResultService) ListAll(ctx context.Context) ([]model.Result, error) {
	return s.resultRepo.ListAll(ctx)
}

// ListByTest retrieves every result for one test. Admin paths only.
func (s *ResultService) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Result, error) {
	return s.resultRepo.ListByTest(ctx, testID)
}
