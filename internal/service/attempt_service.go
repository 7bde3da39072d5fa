package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/exam"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt errors.
var (
	ErrNoActiveAttempt  = errors.New("no active attempt")
	ErrAttemptSubmitted = errors.New("attempt already submitted")
)

// AttemptService owns the in-memory registry of live attempt controllers,
// one per user, and the tick loop that drives their countdowns. Opening a
// test always starts a fresh session; a dropped connection discards
// un-submitted answers rather than resuming them.
type AttemptService struct {
	mu          sync.Mutex
	controllers map[int]*exam.Controller

	testService   *TestService
	resultService *ResultService
	rdb           *redis.Client
	tickInterval  time.Duration
	log           zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	testService *TestService,
	resultService *ResultService,
	rdb *redis.Client,
	tickInterval time.Duration,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		controllers:   make(map[int]*exam.Controller),
		testService:   testService,
		resultService: resultService,
		rdb:           rdb,
		tickInterval:  tickInterval,
		log:           log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start opens a fresh attempt at the given test for the user. Reachability
// is checked through the same gate the portal uses, so a student can never
// start an unpublished test. Any previous live attempt for the user is
// closed and replaced.
func (s *AttemptService) Start(ctx context.Context, userID int, role model.Role, testID uuid.UUID) (exam.AttemptView, error) {
	ct, err := s.testService.GetVisible(ctx, role, testID)
	if err != nil {
		return exam.AttemptView{}, err
	}

	ctrl := exam.NewController(ct, userID, s.resultService)

	s.mu.Lock()
	if old, ok := s.controllers[userID]; ok {
		old.Close()
	}
	s.controllers[userID] = ctrl
	s.mu.Unlock()

	key := config.CacheKey.AttemptStartKey(testID.String(), userID)
	startedAt := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.rdb.Set(ctx, key, startedAt, time.Duration(ct.DurationMinutes)*time.Minute).Err(); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Attempt start marker not recorded")
	}

	s.log.Info().
		Int("user_id", userID).
		Str("test_id", testID.String()).
		Int("duration_minutes", ct.DurationMinutes).
		Msg("Attempt started")
	return ctrl.View(), nil
}

// View returns a snapshot of the user's live attempt.
func (s *AttemptService) View(userID int) (exam.AttemptView, error) {
	ctrl, err := s.controller(userID)
	if err != nil {
		return exam.AttemptView{}, err
	}
	return ctrl.View(), nil
}

// SelectAnswer records an option for the question at the given index on the
// user's live attempt.
func (s *AttemptService) SelectAnswer(userID, questionIndex int, option string) (exam.AttemptView, error) {
	ctrl, err := s.controller(userID)
	if err != nil {
		return exam.AttemptView{}, err
	}
	if err := ctrl.SelectAnswer(questionIndex, option); err != nil {
		return exam.AttemptView{}, err
	}
	return ctrl.View(), nil
}

// Navigate moves the attempt's question cursor.
func (s *AttemptService) Navigate(userID, targetIndex int) (exam.AttemptView, error) {
	ctrl, err := s.controller(userID)
	if err != nil {
		return exam.AttemptView{}, err
	}
	ctrl.Navigate(targetIndex)
	return ctrl.View(), nil
}

// Submit finalizes the user's live attempt and deregisters the controller on
// success. On a failed enqueue the attempt stays live so the user can retry.
func (s *AttemptService) Submit(ctx context.Context, userID int) (*exam.SubmitOutcome, error) {
	ctrl, err := s.controller(userID)
	if err != nil {
		return nil, err
	}

	out, err := ctrl.RequestSubmit(ctx, false)
	if err != nil {
		if errors.Is(err, exam.ErrAlreadySubmitted) {
			return nil, ErrAttemptSubmitted
		}
		return nil, err
	}

	s.deregister(userID, ctrl)
	return out, nil
}

// Abandon discards the user's live attempt without submitting. Answers are
// lost.
func (s *AttemptService) Abandon(ctx context.Context, userID int) error {
	s.mu.Lock()
	ctrl, ok := s.controllers[userID]
	if ok {
		ctrl.Close()
		delete(s.controllers, userID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNoActiveAttempt
	}

	view := ctrl.View()
	s.rdb.Del(ctx, config.CacheKey.AttemptStartKey(view.TestID.String(), userID))
	s.log.Info().Int("user_id", userID).Str("test_id", view.TestID.String()).Msg("Attempt abandoned")
	return nil
}

// Run drives the countdown of every live attempt until the context is
// cancelled. Attempts that auto-submit on expiry are deregistered here.
func (s *AttemptService) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.tickInterval).Msg("Attempt ticker started")
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Attempt ticker stopped")
			return
		case <-ticker.C:
			s.tickAll(ctx)
		}
	}
}

func (s *AttemptService) tickAll(ctx context.Context) {
	s.mu.Lock()
	live := make(map[int]*exam.Controller, len(s.controllers))
	for userID, ctrl := range s.controllers {
		live[userID] = ctrl
	}
	s.mu.Unlock()

	for userID, ctrl := range live {
		out, err := ctrl.Tick(ctx)
		if err != nil {
			// Enqueue failed; the attempt rolled back and the next expiry
			// tick retries.
			s.log.Error().Err(err).Int("user_id", userID).Msg("Automatic submission failed")
			continue
		}
		if out != nil {
			s.log.Info().
				Int("user_id", userID).
				Str("test_id", out.Result.TestID.String()).
				Int("marks", out.Result.Marks).
				Msg("Attempt auto-submitted on expiry")
			s.deregister(userID, ctrl)
		}
	}
}

// controller returns the user's live controller, or ErrNoActiveAttempt. A
// submitted controller still in the map is treated as absent.
func (s *AttemptService) controller(userID int) (*exam.Controller, error) {
	s.mu.Lock()
	ctrl, ok := s.controllers[userID]
	s.mu.Unlock()

	if !ok {
		return nil, ErrNoActiveAttempt
	}
	if ctrl.Status() == exam.StatusSubmitted {
		return nil, ErrAttemptSubmitted
	}
	return ctrl, nil
}

// deregister removes the controller if it is still the user's current one.
// A replacement registered by a newer Start is left alone.
func (s *AttemptService) deregister(userID int, ctrl *exam.Controller) {
	s.mu.Lock()
	if current, ok := s.controllers[userID]; ok && current == ctrl {
		ctrl.Close()
		delete(s.controllers, userID)
	}
	s.mu.Unlock()
}
