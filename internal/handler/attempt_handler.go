package handler

import (
	"errors"
	"net/http"

	"github.com/conceptdelta/examdesk/internal/exam"
	"github.com/conceptdelta/examdesk/internal/gate"
	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/conceptdelta/examdesk/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler drives the test-taking lifecycle over HTTP.
type AttemptHandler struct {
	attemptService *service.AttemptService
	profileService *service.ProfileService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, profileService *service.ProfileService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		profileService: profileService,
	}
}

// StartAttemptRequest carries the test to open.
type StartAttemptRequest struct {
	TestID uuid.UUID `json:"test_id" binding:"required"`
}

// SelectAnswerRequest records one option choice.
type SelectAnswerRequest struct {
	QuestionIndex int    `json:"question_index" binding:"min=0"`
	Option        string `json:"option" binding:"required,option"`
}

// NavigateRequest moves the question cursor.
type NavigateRequest struct {
	TargetIndex int `json:"target_index" binding:"min=0"`
}

// Start godoc
// POST /api/v1/attempt
// Opens a fresh attempt at a test. Requires a completed profile; a previous
// live attempt is discarded and replaced.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	eval, err := h.profileService.BuildEvaluator(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if eval.ProfileGate() != gate.ProfileComplete {
		response.Fail(c, http.StatusForbidden, response.ErrProfileRequired)
		return
	}

	view, err := h.attemptService.Start(c.Request.Context(), claims.UserID, claims.Role, req.TestID)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": view})
}

// State godoc
// GET /api/v1/attempt
// Returns a snapshot of the live attempt for the polling UI.
func (h *AttemptHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.attemptService.View(claims.UserID)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// SelectAnswer godoc
// PUT /api/v1/attempt/answer
// Records an option for one question. Last write wins.
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.attemptService.SelectAnswer(claims.UserID, req.QuestionIndex, req.Option)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// Navigate godoc
// PUT /api/v1/attempt/cursor
// Moves the question cursor, clamped to the valid range.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.attemptService.Navigate(claims.UserID, req.TargetIndex)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// Submit godoc
// POST /api/v1/attempt/submit
// Finalizes the attempt. A repeated submit reports the attempt as already
// submitted; a failed submit leaves the attempt live for retry.
func (h *AttemptHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	out, err := h.attemptService.Submit(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
		case errors.Is(err, service.ErrAttemptSubmitted), errors.Is(err, exam.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAttemptSubmitted)
		default:
			response.Fail(c, http.StatusServiceUnavailable, response.ErrSubmitFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":       out.Result,
		"time_expired": out.TimeExpired,
	})
}

// Abandon godoc
// DELETE /api/v1/attempt
// Discards the live attempt without submitting.
func (h *AttemptHandler) Abandon(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.attemptService.Abandon(c.Request.Context(), claims.UserID); err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// failAttempt maps attempt-layer errors to envelope codes.
func failAttempt(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveAttempt):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
	case errors.Is(err, service.ErrAttemptSubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAttemptSubmitted)
	case errors.Is(err, exam.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrAttemptSubmitted)
	case errors.Is(err, exam.ErrIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, exam.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
