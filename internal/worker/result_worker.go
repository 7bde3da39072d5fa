package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker drains the result queue and persists submitted results to
// PostgreSQL in batches. A result stays in Redis until it lands in the
// database: a failed batch falls back to row-at-a-time inserts and anything
// still failing is requeued.
type ResultWorker struct {
	resultRepo *repository.ResultRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

func NewResultWorker(resultRepo *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		resultRepo: resultRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "result_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.Result, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			res := &model.Result{}
			if err := json.Unmarshal([]byte(item[1]), res); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, res)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper with fallback + requeue
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.Result) {
	if len(batch) == 0 {
		return
	}

	if err := w.resultRepo.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk result insert failed, using fallback")

		for _, res := range batch {
			if err := w.resultRepo.Insert(ctx, res); err != nil {
				w.log.Error().Err(err).Msg("single insert failed — requeueing")
				raw, _ := json.Marshal(res)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("Result batch persisted")

	// Persisted results no longer need their attempt start markers.
	w.bulkClearStartMarkers(ctx, batch)
}

// ----------------------------------------------------------------
// BULK Redis DEL for clearing attempt start markers
// ----------------------------------------------------------------

func (w *ResultWorker) bulkClearStartMarkers(ctx context.Context, batch []*model.Result) {
	pipe := w.rdb.Pipeline()

	for _, res := range batch {
		key := config.CacheKey.AttemptStartKey(res.TestID.String(), res.UserID)
		pipe.Del(ctx, key)
	}

	_, _ = pipe.Exec(ctx)
}
