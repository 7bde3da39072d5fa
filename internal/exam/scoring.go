package exam

import (
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
)

// Outcome is the result of marking one answer set against one question set.
type Outcome struct {
	// Marks is the signed weighted total. It may be negative.
	Marks int
	// CorrectCount is the number of correctly answered questions,
	// always in [0, len(questions)].
	CorrectCount int
}

// Score marks a submitted answer set against the test's questions in their
// fixed order. A question with no submitted answer contributes nothing; a
// correct selection adds MarksPerCorrect; a wrong selection subtracts
// NegativeMarks. Answers referencing question ids not in the test are
// ignored — they indicate a gating bug upstream, not a user condition.
func Score(questions []model.Question, scheme model.MarkingScheme, answers []model.Answer) Outcome {
	selected := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		if a.SelectedOption == "" {
			continue
		}
		selected[a.QuestionID] = a.SelectedOption
	}

	var out Outcome
	for _, q := range questions {
		opt, ok := selected[q.ID]
		if !ok {
			continue
		}
		if opt == q.CorrectOption {
			out.Marks += scheme.MarksPerCorrect
			out.CorrectCount++
		} else {
			out.Marks -= scheme.NegativeMarks
		}
	}
	return out
}

// MaxMarks returns the maximum attainable marks for a question count under
// the given scheme. Derived display value, never stored.
func MaxMarks(totalQuestions int, scheme model.MarkingScheme) int {
	return totalQuestions * scheme.MarksPerCorrect
}

// Percentage converts marks to a display percentage, clamping negatives to
// zero. A zero maximum (empty test) reports 0 rather than dividing by zero.
func Percentage(marks, maxMarks int) int {
	if maxMarks <= 0 {
		return 0
	}
	if marks < 0 {
		return 0
	}
	return marks * 100 / maxMarks
}
