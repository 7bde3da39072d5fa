package exam

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu      sync.Mutex
	calls   int
	results []*model.Result
	err     error
}

func (s *fakeSink) SubmitResult(_ context.Context, r *model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, r)
	return nil
}

func makeTest(durationMinutes int, correct ...string) *model.CompleteTest {
	return &model.CompleteTest{
		ID:              uuid.New(),
		Name:            "Mock Test",
		DurationMinutes: durationMinutes,
		IsPublished:     true,
		Marking:         model.MarkingScheme{MarksPerCorrect: 4, NegativeMarks: 1},
		Questions:       makeQuestions(correct...),
	}
}

func TestControllerManualSubmitScoresSparseAnswers(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(10, "a", "b", "c", "d", "a"), 42, sink)

	require.NoError(t, c.SelectAnswer(0, "a"))
	require.NoError(t, c.SelectAnswer(1, "b"))
	require.NoError(t, c.SelectAnswer(2, "a")) // wrong

	out, err := c.RequestSubmit(context.Background(), false)
	require.NoError(t, err)
	require.False(t, out.TimeExpired)
	require.Equal(t, 7, out.Result.Marks)
	require.Equal(t, 2, out.Result.Score)
	require.Len(t, out.Result.Answers, 3) // unanswered questions omitted
	require.Equal(t, 42, out.Result.UserID)
	require.Equal(t, StatusSubmitted, c.Status())
	require.Equal(t, 1, sink.calls)
}

func TestControllerDoubleSubmitCallsSinkOnce(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(10, "a"), 1, sink)

	_, err := c.RequestSubmit(context.Background(), false)
	require.NoError(t, err)

	_, err = c.RequestSubmit(context.Background(), false)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.Equal(t, 1, sink.calls)
}

func TestControllerFailedSubmitRollsBack(t *testing.T) {
	sink := &fakeSink{err: errors.New("network down")}
	c := NewController(makeTest(10, "a"), 1, sink)

	_, err := c.RequestSubmit(context.Background(), false)
	require.Error(t, err)
	require.Equal(t, StatusInProgress, c.Status())

	// The retry is a fresh caller-initiated submit and succeeds.
	sink.err = nil
	out, err := c.RequestSubmit(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, StatusSubmitted, c.Status())
	require.Equal(t, 2, sink.calls)
}

func TestControllerAutoSubmitOnExpiry(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(1, "a", "b"), 1, sink)
	require.NoError(t, c.SelectAnswer(0, "a"))

	ctx := context.Background()
	var out *SubmitOutcome
	for i := 0; i < 60; i++ {
		o, err := c.Tick(ctx)
		require.NoError(t, err)
		if o != nil {
			out = o
		}
	}

	require.NotNil(t, out)
	require.True(t, out.TimeExpired)
	require.Equal(t, 4, out.Result.Marks)
	require.Equal(t, StatusSubmitted, c.Status())
	require.Equal(t, 1, sink.calls)

	// Further ticks into the submitted session are no-ops.
	o, err := c.Tick(ctx)
	require.NoError(t, err)
	require.Nil(t, o)
	require.Equal(t, 1, sink.calls)
}

func TestControllerManualSubmitBeatsExpiry(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(1, "a"), 1, sink)

	ctx := context.Background()
	for i := 0; i < 59; i++ {
		_, err := c.Tick(ctx)
		require.NoError(t, err)
	}

	_, err := c.RequestSubmit(ctx, false)
	require.NoError(t, err)

	// The expiry tick arrives after the manual submit and is ignored.
	o, err := c.Tick(ctx)
	require.NoError(t, err)
	require.Nil(t, o)
	require.Equal(t, 1, sink.calls)
}

func TestControllerSelectAnswerGuards(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(10, "a", "b"), 1, sink)

	require.ErrorIs(t, c.SelectAnswer(-1, "a"), ErrIndexOutOfRange)
	require.ErrorIs(t, c.SelectAnswer(2, "a"), ErrIndexOutOfRange)
	require.ErrorIs(t, c.SelectAnswer(0, "x"), ErrInvalidOption)

	// Last write wins.
	require.NoError(t, c.SelectAnswer(0, "a"))
	require.NoError(t, c.SelectAnswer(0, "c"))
	require.Equal(t, "c", c.View().Answers[0])

	_, err := c.RequestSubmit(context.Background(), false)
	require.NoError(t, err)
	require.ErrorIs(t, c.SelectAnswer(0, "a"), ErrNotInProgress)
}

func TestControllerNavigateClamps(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(10, "a", "b", "c"), 1, sink)

	require.Equal(t, 2, c.Navigate(5))
	require.Equal(t, 0, c.Navigate(-3))
	require.Equal(t, 1, c.Navigate(1))
	require.Equal(t, 1, c.View().Cursor)
}

func TestControllerZeroDurationNeverAutoSubmits(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(0, "a"), 1, sink)

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		o, err := c.Tick(ctx)
		require.NoError(t, err)
		require.Nil(t, o)
	}

	v := c.View()
	require.False(t, v.TimeExpired)
	require.Equal(t, StatusInProgress, c.Status())
	require.Zero(t, sink.calls)
}

func TestControllerCloseStopsTicks(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(1, "a"), 1, sink)
	c.Close()

	ctx := context.Background()
	for i := 0; i < 120; i++ {
		o, err := c.Tick(ctx)
		require.NoError(t, err)
		require.Nil(t, o)
	}
	require.Zero(t, sink.calls)
}

func TestControllerViewSnapshot(t *testing.T) {
	sink := &fakeSink{}
	c := NewController(makeTest(2, "a", "b", "c"), 1, sink)
	require.NoError(t, c.SelectAnswer(1, "b"))
	c.Navigate(2)
	_, err := c.Tick(context.Background())
	require.NoError(t, err)

	v := c.View()
	require.Equal(t, 3, v.TotalQuestions)
	require.Equal(t, 1, v.AnsweredCount)
	require.Equal(t, []bool{false, true, false}, v.Answered)
	require.Equal(t, 2, v.Cursor)
	require.Equal(t, 119, v.RemainingSeconds)
	require.Equal(t, "01:59", v.RemainingFormatted)
	require.Equal(t, StatusInProgress, v.Status)
}
