package repository

import (
	"context"
	"fmt"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestRepository handles test data access, including the ordered
// test-question join table.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// Create inserts a test and its ordered question references in one
// transaction.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO tests (name, duration_minutes, marks_per_correct, negative_marks)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_published, created_at, updated_at`,
		t.Name, t.DurationMinutes, t.Marking.MarksPerCorrect, t.Marking.NegativeMarks,
	).Scan(&t.ID, &t.IsPublished, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert test: %w", err)
	}

	if err := replaceQuestionRefs(ctx, tx, t.ID, t.QuestionIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update replaces a test's fields and question list in one transaction.
func (r *TestRepository) Update(ctx context.Context, t *model.Test) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE tests
		 SET name = $1, duration_minutes = $2, marks_per_correct = $3,
		     negative_marks = $4, updated_at = NOW()
		 WHERE id = $5`,
		t.Name, t.DurationMinutes, t.Marking.MarksPerCorrect, t.Marking.NegativeMarks, t.ID)
	if err != nil {
		return fmt.Errorf("update test: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM test_questions WHERE test_id = $1`, t.ID); err != nil {
		return fmt.Errorf("clear question refs: %w", err)
	}
	if err := replaceQuestionRefs(ctx, tx, t.ID, t.QuestionIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceQuestionRefs(ctx context.Context, tx pgx.Tx, testID uuid.UUID, questionIDs []uuid.UUID) error {
	for pos, qid := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO test_questions (test_id, question_id, position)
			 VALUES ($1, $2, $3)`,
			testID, qid, pos); err != nil {
			return fmt.Errorf("insert question ref: %w", err)
		}
	}
	return nil
}

// Delete removes a test and its question references.
func (r *TestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	return err
}

// GetByID retrieves a test with its ordered question id list.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, duration_minutes, is_published, marks_per_correct, negative_marks, created_at, updated_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.IsPublished,
		&t.Marking.MarksPerCorrect, &t.Marking.NegativeMarks, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM test_questions WHERE test_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var qid uuid.UUID
		if err := rows.Scan(&qid); err != nil {
			return nil, err
		}
		t.QuestionIDs = append(t.QuestionIDs, qid)
	}
	return t, rows.Err()
}

// GetComplete retrieves a test with its questions resolved in order.
func (r *TestRepository) GetComplete(ctx context.Context, id uuid.UUID) (*model.CompleteTest, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.image_url, q.correct_option, q.created_at
		 FROM test_questions tq
		 JOIN questions q ON q.id = tq.question_id
		 WHERE tq.test_id = $1
		 ORDER BY tq.position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ct := &model.CompleteTest{
		ID:              t.ID,
		Name:            t.Name,
		DurationMinutes: t.DurationMinutes,
		IsPublished:     t.IsPublished,
		Marking:         t.Marking,
	}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ImageURL, &q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, err
		}
		ct.Questions = append(ct.Questions, q)
	}
	return ct, rows.Err()
}

// ListAll retrieves every test, newest first.
func (r *TestRepository) ListAll(ctx context.Context) ([]model.Test, error) {
	return r.list(ctx, `SELECT id, name, duration_minutes, is_published, marks_per_correct, negative_marks, created_at, updated_at
		FROM tests ORDER BY created_at DESC`)
}

// ListPublished retrieves only published tests.
func (r *TestRepository) ListPublished(ctx context.Context) ([]model.Test, error) {
	return r.list(ctx, `SELECT id, name, duration_minutes, is_published, marks_per_correct, negative_marks, created_at, updated_at
		FROM tests WHERE is_published ORDER BY created_at DESC`)
}

func (r *TestRepository) list(ctx context.Context, query string) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.IsPublished,
			&t.Marking.MarksPerCorrect, &t.Marking.NegativeMarks, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	if tests == nil {
		return tests, rows.Err()
	}

	// Attach ordered question ids per test. Test counts are small; one
	// query per row keeps this simple.
	for i := range tests {
		qrows, err := r.pool.Query(ctx,
			`SELECT question_id FROM test_questions WHERE test_id = $1 ORDER BY position ASC`, tests[i].ID)
		if err != nil {
			return nil, err
		}
		for qrows.Next() {
			var qid uuid.UUID
			if err := qrows.Scan(&qid); err != nil {
				qrows.Close()
				return nil, err
			}
			tests[i].QuestionIDs = append(tests[i].QuestionIDs, qid)
		}
		if err := qrows.Err(); err != nil {
			qrows.Close()
			return nil, err
		}
		qrows.Close()
	}
	return tests, rows.Err()
}

// SetPublished flips the publication flag. Returns the new value.
func (r *TestRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tests SET is_published = $1, updated_at = NOW() WHERE id = $2`, published, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
