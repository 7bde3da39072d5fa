package model

import (
	"time"

	"github.com/google/uuid"
)

// MarkingScheme defines how answers convert to marks.
type MarkingScheme struct {
	MarksPerCorrect int `json:"marks_per_correct"`
	NegativeMarks   int `json:"negative_marks"`
}

// Test represents a timed test as stored, with ordered question references.
type Test struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	DurationMinutes int         `json:"duration_minutes"`
	QuestionIDs     []uuid.UUID `json:"question_ids"`
	IsPublished     bool        `json:"is_published"`
	Marking         MarkingScheme `json:"marking"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CompleteTest is a test with its questions resolved in order. From the
// attempt's point of view it is immutable for the duration of the attempt.
type CompleteTest struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	DurationMinutes int           `json:"duration_minutes"`
	IsPublished     bool          `json:"is_published"`
	Marking         MarkingScheme `json:"marking"`
	Questions       []Question    `json:"questions"`
}

// TestPayload is the Redis-cached payload sent to students (no correct answers).
type TestPayload struct {
	TestID          uuid.UUID            `json:"test_id"`
	Name            string               `json:"name"`
	DurationMinutes int                  `json:"duration_minutes"`
	Marking         MarkingScheme        `json:"marking"`
	Questions       []QuestionForStudent `json:"questions"`
}

// SaveTestRequest is the payload for creating or updating a test.
type SaveTestRequest struct {
	Name            string      `json:"name" binding:"required,min=3,max=255"`
	DurationMinutes int         `json:"duration_minutes" binding:"required,min=1,max=480"`
	QuestionIDs     []uuid.UUID `json:"question_ids" binding:"required,min=1"`
	MarksPerCorrect int         `json:"marks_per_correct" binding:"required,min=1"`
	NegativeMarks   int         `json:"negative_marks" binding:"min=0"`
}
