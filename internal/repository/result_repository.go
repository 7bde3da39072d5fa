package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles persisted results of submitted attempts.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert persists one result. The answer list is stored as JSONB since it
// is only ever read back whole.
func (r *ResultRepository) Insert(ctx context.Context, res *model.Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO results (id, test_id, user_id, answers, marks, score, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		res.ID, res.TestID, res.UserID, answers, res.Marks, res.Score, res.SubmittedAt)
	return err
}

// BulkInsert persists a batch of results with UNNEST, used by the persist
// worker to flush its queue.
func (r *ResultRepository) BulkInsert(ctx context.Context, batch []*model.Result) error {
	n := len(batch)
	ids := make([]uuid.UUID, 0, n)
	testIDs := make([]uuid.UUID, 0, n)
	userIDs := make([]int, 0, n)
	answers := make([][]byte, 0, n)
	marks := make([]int, 0, n)
	scores := make([]int, 0, n)
	submitted := make([]interface{}, 0, n)

	for _, res := range batch {
		raw, err := json.Marshal(res.Answers)
		if err != nil {
			return fmt.Errorf("marshal answers: %w", err)
		}
		ids = append(ids, res.ID)
		testIDs = append(testIDs, res.TestID)
		userIDs = append(userIDs, res.UserID)
		answers = append(answers, raw)
		marks = append(marks, res.Marks)
		scores = append(scores, res.Score)
		submitted = append(submitted, res.SubmittedAt)
	}

	query := `
		INSERT INTO results (id, test_id, user_id, answers, marks, score, submitted_at)
		SELECT u.id, u.test_id, u.user_id, u.answers, u.marks, u.score, u.submitted_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::int[],
			$4::jsonb[],
			$5::int[],
			$6::int[],
			$7::timestamptz[]
		) AS u (id, test_id, user_id, answers, marks, score, submitted_at)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, ids, testIDs, userIDs, answers, marks, scores, submitted)
	return err
}

// ListByUser retrieves a user's results, most recent first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int) ([]model.Result, error) {
	return r.list(ctx,
		`SELECT id, test_id, user_id, answers, marks, score, submitted_at
		 FROM results WHERE user_id = $1 ORDER BY submitted_at DESC`, userID)
}

// ListAll retrieves every result, most recent first.
func (r *ResultRepository) ListAll(ctx context.Context) ([]model.Result, error) {
	return r.list(ctx,
		`SELECT id, test_id, user_id, answers, marks, score, submitted_at
		 FROM results ORDER BY submitted_at DESC`)
}

// ListByTest retrieves all results for one test.
func (r *ResultRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Result, error) {
	return r.list(ctx,
		`SELECT id, test_id, user_id, answers, marks, score, submitted_at
		 FROM results WHERE test_id = $1 ORDER BY submitted_at DESC`, testID)
}

func (r *ResultRepository) list(ctx context.Context, query string, args ...any) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		var raw []byte
		if err := rows.Scan(&res.ID, &res.TestID, &res.UserID, &raw, &res.Marks, &res.Score, &res.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &res.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
