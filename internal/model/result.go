package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer pairs a question with the option the student selected. Unanswered
// questions are simply absent from the answer list; an empty selection is
// never sent.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
}

// Result is the persisted outcome of one submitted attempt. Marks is the
// signed weighted total; Score is the plain count of correct answers and is
// reported separately as "X/Y correct".
type Result struct {
	ID          uuid.UUID `json:"id"`
	TestID      uuid.UUID `json:"test_id"`
	UserID      int       `json:"user_id"`
	Answers     []Answer  `json:"answers"`
	Marks       int       `json:"marks"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}
