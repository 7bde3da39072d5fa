package service

import (
	"context"
	"errors"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/google/uuid"
)

// ErrQuestionInUse is returned when deleting a question a test references.
var ErrQuestionInUse = errors.New("question is referenced by a test")

// QuestionService handles question curation.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Create adds a new question.
func (s *QuestionService) Create(ctx context.Context, req *model.SaveQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		ImageURL:      req.ImageURL,
		CorrectOption: req.CorrectOption,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Update replaces a question's image and correct option.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.SaveQuestionRequest) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q.ImageURL = req.ImageURL
	q.CorrectOption = req.CorrectOption
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes a question unless a test still references it.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.questionRepo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrQuestionInUse
	}
	return s.questionRepo.Delete(ctx, id)
}

// ListAll retrieves every question.
func (s *QuestionService) ListAll(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListAll(ctx)
}
