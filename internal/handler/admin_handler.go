package handler

import (
	"errors"
	"net/http"

	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/conceptdelta/examdesk/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdminHandler handles question/test curation, user and result listings,
// and the one-shot admin visit flag.
type AdminHandler struct {
	questionService *service.QuestionService
	testService     *service.TestService
	userService     *service.UserService
	resultService   *service.ResultService
	profileService  *service.ProfileService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	questionService *service.QuestionService,
	testService *service.TestService,
	userService *service.UserService,
	resultService *service.ResultService,
	profileService *service.ProfileService,
) *AdminHandler {
	return &AdminHandler{
		questionService: questionService,
		testService:     testService,
		userService:     userService,
		resultService:   resultService,
		profileService:  profileService,
	}
}

// ---- Questions ----

// CreateQuestion godoc
// POST /api/v1/admin/questions
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": q})
}

// UpdateQuestion godoc
// PUT /api/v1/admin/questions/:id
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": q})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:id
// Refused while any test references the question.
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuestionInUse) {
			response.Fail(c, http.StatusConflict, response.ErrQuestionInUse)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListQuestions godoc
// GET /api/v1/admin/questions
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ---- Tests ----

// CreateTest godoc
// POST /api/v1/admin/tests
func (h *AdminHandler) CreateTest(c *gin.Context) {
	var req model.SaveTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.testService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": t})
}

// UpdateTest godoc
// PUT /api/v1/admin/tests/:id
func (h *AdminHandler) UpdateTest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.testService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": t})
}

// DeleteTest godoc
// DELETE /api/v1/admin/tests/:id
func (h *AdminHandler) DeleteTest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListTests godoc
// GET /api/v1/admin/tests
func (h *AdminHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// TogglePublish godoc
// POST /api/v1/admin/tests/:id/publish
// Flips publication. Publishing warms the payload cache; a test with no
// questions cannot be published.
func (h *AdminHandler) TogglePublish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	t, err := h.testService.TogglePublish(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": t})
}

// ---- Users and results ----

// ListUsers godoc
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListWithProfiles(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// ListResults godoc
// GET /api/v1/admin/results
// Optionally filtered by ?test_id=.
func (h *AdminHandler) ListResults(c *gin.Context) {
	if rawID := c.Query("test_id"); rawID != "" {
		testID, err := uuid.Parse(rawID)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		results, err := h.resultService.ListByTest(c.Request.Context(), testID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"results": results})
		return
	}

	results, err := h.resultService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ---- One-shot visit flag ----

// GetVisit godoc
// GET /api/v1/admin/visit
// Returns whether the caller has used their one admin panel visit.
func (h *AdminHandler) GetVisit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	visited, err := h.profileService.HasVisitedAdmin(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"has_visited_admin": visited})
}

// MarkVisit godoc
// POST /api/v1/admin/visit
// Consumes the one admin panel visit. The write is monotonic: the first
// call succeeds, every later call reports the visit as already used.
func (h *AdminHandler) MarkVisit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	first, err := h.profileService.MarkAdminVisited(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !first {
		response.Fail(c, http.StatusConflict, response.ErrAdminVisitUsed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"has_visited_admin": true})
}
