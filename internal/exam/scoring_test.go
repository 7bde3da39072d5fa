package exam

import (
	"testing"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func makeQuestions(correct ...string) []model.Question {
	qs := make([]model.Question, len(correct))
	for i, c := range correct {
		qs[i] = model.Question{ID: uuid.New(), CorrectOption: c}
	}
	return qs
}

func TestScoreMixedAnswers(t *testing.T) {
	qs := makeQuestions("a", "b", "c", "d", "a")
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	// Correct on Q1 and Q2, wrong on Q3, Q4 and Q5 unanswered.
	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: "a"},
		{QuestionID: qs[1].ID, SelectedOption: "b"},
		{QuestionID: qs[2].ID, SelectedOption: "a"},
	}

	out := Score(qs, scheme, answers)
	require.Equal(t, 7, out.Marks)
	require.Equal(t, 2, out.CorrectCount)
}

func TestScoreAllUnanswered(t *testing.T) {
	qs := makeQuestions("a", "b", "c")
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	out := Score(qs, scheme, nil)
	require.Zero(t, out.Marks)
	require.Zero(t, out.CorrectCount)
}

func TestScoreNoQuestions(t *testing.T) {
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	out := Score(nil, scheme, []model.Answer{{QuestionID: uuid.New(), SelectedOption: "a"}})
	require.Zero(t, out.Marks)
	require.Zero(t, out.CorrectCount)
}

func TestScoreIgnoresUnknownQuestionIDs(t *testing.T) {
	qs := makeQuestions("a")
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: "a"},
		{QuestionID: uuid.New(), SelectedOption: "b"}, // not in the test
	}

	out := Score(qs, scheme, answers)
	require.Equal(t, 4, out.Marks)
	require.Equal(t, 1, out.CorrectCount)
}

func TestScoreCanGoNegative(t *testing.T) {
	qs := makeQuestions("a", "a", "a")
	scheme := model.MarkingScheme{MarksPerCorrect: 1, NegativeMarks: 2}

	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: "b"},
		{QuestionID: qs[1].ID, SelectedOption: "c"},
		{QuestionID: qs[2].ID, SelectedOption: "d"},
	}

	out := Score(qs, scheme, answers)
	require.Equal(t, -6, out.Marks)
	require.Zero(t, out.CorrectCount)
}

func TestScoreEmptySelectionIsUnanswered(t *testing.T) {
	qs := makeQuestions("a")
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	// An empty selection must not be treated as a wrong answer.
	out := Score(qs, scheme, []model.Answer{{QuestionID: qs[0].ID, SelectedOption: ""}})
	require.Zero(t, out.Marks)
	require.Zero(t, out.CorrectCount)
}

func TestMaxMarksAndPercentage(t *testing.T) {
	scheme := model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1}

	require.Equal(t, 20, MaxMarks(5, scheme))
	require.Equal(t, 35, Percentage(7, 20))
	require.Equal(t, 100, Percentage(20, 20))

	// Negative marks clamp to 0% and an empty test never divides by zero.
	require.Zero(t, Percentage(-3, 20))
	require.Zero(t, Percentage(10, 0))
}
