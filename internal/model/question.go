package model

import (
	"time"

	"github.com/google/uuid"
)

// OptionLabels is the fixed answer alphabet for every question.
var OptionLabels = []string{"a", "b", "c", "d"}

// IsValidOption reports whether s is one of the allowed option labels.
func IsValidOption(s string) bool {
	for _, l := range OptionLabels {
		if s == l {
			return true
		}
	}
	return false
}

// Question represents a single image-based multiple-choice question.
// The image itself is hosted externally; only its URL is stored.
type Question struct {
	ID            uuid.UUID `json:"id"`
	ImageURL      string    `json:"image_url"`
	CorrectOption string    `json:"correct_option"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionForStudent is a question without the correct answer, sent to
// test takers.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
}

// SaveQuestionRequest is the payload for adding or updating a question.
type SaveQuestionRequest struct {
	ImageURL      string `json:"image_url" binding:"required,url,max=2048"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=a b c d"`
}
