package exam

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
)

// Status enumerates attempt states. The only transitions are
// IN_PROGRESS → SUBMITTING → SUBMITTED; SUBMITTED is terminal and a failed
// submission returns SUBMITTING to IN_PROGRESS.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitting Status = "SUBMITTING"
	StatusSubmitted  Status = "SUBMITTED"
)

// Controller errors.
var (
	ErrNotInProgress    = errors.New("attempt is not in progress")
	ErrAlreadySubmitted = errors.New("attempt submission already requested")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrInvalidOption    = errors.New("selected option is not in the answer alphabet")
)

// ResultSink receives the computed result of a submitted attempt. The call
// is issued at most once per successful submission and, once issued, is
// allowed to complete or fail but never aborted.
type ResultSink interface {
	SubmitResult(ctx context.Context, result *model.Result) error
}

// SubmitOutcome is returned from a successful submission. TimeExpired is an
// informational flag distinguishing an automatic (timer-driven) submission
// from a manual one; it is not a separate code path.
type SubmitOutcome struct {
	Result      *model.Result
	TimeExpired bool
}

// Controller owns the in-memory state of one test attempt: the answer map,
// the navigation cursor, the countdown timer, and the submission status.
// All answer mutation happens through it one event at a time.
type Controller struct {
	mu sync.Mutex

	test   *model.CompleteTest
	userID int
	sink   ResultSink

	timer      *CountdownTimer
	expireFire bool

	answers map[int]string
	cursor  int
	status  Status
	closed  bool
}

// NewController creates a controller for one attempt at the given test.
// The test is treated as immutable for the lifetime of the attempt.
func NewController(test *model.CompleteTest, userID int, sink ResultSink) *Controller {
	c := &Controller{
		test:    test,
		userID:  userID,
		sink:    sink,
		answers: make(map[int]string),
		status:  StatusInProgress,
	}
	c.timer = NewCountdownTimer(test.DurationMinutes, func() {
		// Runs inside Tick while the lock is held; defer the actual
		// submission until the lock is released.
		c.expireFire = true
	})
	return c
}

// Tick advances the countdown by one second. When the timer expires it
// requests an automatic submission; the single-transition guarantee in
// RequestSubmit makes a repeat or racing trigger a no-op.
func (c *Controller) Tick(ctx context.Context) (*SubmitOutcome, error) {
	c.mu.Lock()
	if c.closed || c.status != StatusInProgress {
		c.mu.Unlock()
		return nil, nil
	}
	c.expireFire = false
	c.timer.Tick()
	fire := c.expireFire
	c.mu.Unlock()

	if !fire {
		return nil, nil
	}

	out, err := c.RequestSubmit(ctx, true)
	if errors.Is(err, ErrAlreadySubmitted) {
		// A manual submission won the race.
		return nil, nil
	}
	return out, err
}

// SelectAnswer records the selected option for the question at the given
// index. Last write wins; allowed only while the attempt is in progress.
func (c *Controller) SelectAnswer(questionIndex int, option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusInProgress {
		return ErrNotInProgress
	}
	if questionIndex < 0 || questionIndex >= len(c.test.Questions) {
		return ErrIndexOutOfRange
	}
	if !model.IsValidOption(option) {
		return ErrInvalidOption
	}
	c.answers[questionIndex] = option
	return nil
}

// Navigate moves the question cursor, clamped to the valid range. It does
// not touch answers or the timer. Returns the resulting cursor.
func (c *Controller) Navigate(targetIndex int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if targetIndex < 0 {
		targetIndex = 0
	}
	if max := len(c.test.Questions) - 1; targetIndex > max {
		targetIndex = max
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	c.cursor = targetIndex
	return c.cursor
}

// RequestSubmit performs the single allowed transition out of IN_PROGRESS,
// scores the answers, and hands the result to the sink. On sink failure the
// attempt rolls back to IN_PROGRESS so the caller can retry; a concurrent or
// repeated call observes SUBMITTING/SUBMITTED and returns
// ErrAlreadySubmitted without a second sink call.
func (c *Controller) RequestSubmit(ctx context.Context, automatic bool) (*SubmitOutcome, error) {
	c.mu.Lock()
	if c.status != StatusInProgress {
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	c.status = StatusSubmitting

	answers := c.buildAnswerList()
	marked := Score(c.test.Questions, c.test.Marking, answers)
	result := &model.Result{
		ID:          uuid.New(),
		TestID:      c.test.ID,
		UserID:      c.userID,
		Answers:     answers,
		Marks:       marked.Marks,
		Score:       marked.CorrectCount,
		SubmittedAt: time.Now(),
	}
	c.mu.Unlock()

	// Once issued, the sink call completes or fails; it is never aborted.
	if err := c.sink.SubmitResult(ctx, result); err != nil {
		c.mu.Lock()
		c.status = StatusInProgress
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.status = StatusSubmitted
	c.mu.Unlock()

	return &SubmitOutcome{Result: result, TimeExpired: automatic}, nil
}

// buildAnswerList converts the sparse answer map into a list following the
// test's question order. Unanswered questions are omitted entirely.
func (c *Controller) buildAnswerList() []model.Answer {
	answers := make([]model.Answer, 0, len(c.answers))
	for i, q := range c.test.Questions {
		opt, ok := c.answers[i]
		if !ok {
			continue
		}
		answers = append(answers, model.Answer{QuestionID: q.ID, SelectedOption: opt})
	}
	return answers
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close tears the attempt down. Subsequent ticks are no-ops, so a dangling
// ticker can never fire into a discarded session. Un-submitted answers are
// lost; there is no draft persistence.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// AttemptView is the snapshot the presentation layer renders from.
type AttemptView struct {
	TestID             uuid.UUID      `json:"test_id"`
	Status             Status         `json:"status"`
	Cursor             int            `json:"cursor"`
	TotalQuestions     int            `json:"total_questions"`
	AnsweredCount      int            `json:"answered_count"`
	Answered           []bool         `json:"answered"`
	Answers            map[int]string `json:"answers"`
	RemainingSeconds   int            `json:"remaining_seconds"`
	RemainingFormatted string         `json:"remaining_formatted"`
	TimePercentage     float64        `json:"time_percentage"`
	TimeExpired        bool           `json:"time_expired"`
}

// View returns a consistent snapshot of the attempt's state and derived
// timer values.
func (c *Controller) View() AttemptView {
	c.mu.Lock()
	defer c.mu.Unlock()

	answered := make([]bool, len(c.test.Questions))
	answers := make(map[int]string, len(c.answers))
	for i, opt := range c.answers {
		answered[i] = true
		answers[i] = opt
	}

	return AttemptView{
		TestID:             c.test.ID,
		Status:             c.status,
		Cursor:             c.cursor,
		TotalQuestions:     len(c.test.Questions),
		AnsweredCount:      len(c.answers),
		Answered:           answered,
		Answers:            answers,
		RemainingSeconds:   c.timer.Remaining(),
		RemainingFormatted: c.timer.Formatted(),
		TimePercentage:     c.timer.Percentage(),
		TimeExpired:        c.timer.Expired(),
	}
}
