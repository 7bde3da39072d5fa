package repository

import (
	"context"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (image_url, correct_option)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		q.ImageURL, q.CorrectOption,
	).Scan(&q.ID, &q.CreatedAt)
}

// Update replaces a question's image and correct option.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET image_url = $1, correct_option = $2 WHERE id = $3`,
		q.ImageURL, q.CorrectOption, q.ID)
	return err
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, image_url, correct_option, created_at
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.ImageURL, &q.CorrectOption, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListAll retrieves every question, newest first.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, image_url, correct_option, created_at
		 FROM questions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ImageURL, &q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountReferences returns how many tests reference a question. Used to
// block deletion of questions that published tests depend on.
func (r *QuestionRepository) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_questions WHERE question_id = $1`, id,
	).Scan(&n)
	return n, err
}
