package handler

import (
	"errors"
	"net/http"

	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler serves the student-facing test catalog and result history.
type PortalHandler struct {
	testService   *service.TestService
	resultService *service.ResultService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(testService *service.TestService, resultService *service.ResultService) *PortalHandler {
	return &PortalHandler{
		testService:   testService,
		resultService: resultService,
	}
}

// ListTests godoc
// GET /api/v1/portal/tests
// Returns the published test catalog.
func (h *PortalHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListPublished(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// GetTest godoc
// GET /api/v1/portal/tests/:id
// Returns one test through the reachability gate; denial is shaped as
// not-found.
func (h *PortalHandler) GetTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Students are served cache-first; GetPayload only exposes published
	// tests, which matches the gate's decision for non-admins. Admins go
	// through the gate so they can preview unpublished tests too.
	if claims.Role != model.RoleAdmin {
		payload, err := h.testService.GetPayload(c.Request.Context(), testID)
		if err != nil {
			if errors.Is(err, service.ErrTestNotFound) {
				response.Fail(c, http.StatusNotFound, response.ErrNotFound)
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"test": payload})
		return
	}

	ct, err := h.testService.GetVisible(c.Request.Context(), claims.Role, testID)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Correct options never leave the server here either.
	response.Success(c, http.StatusOK, gin.H{"test": h.testService.StudentView(ct)})
}

// ListMyResults godoc
// GET /api/v1/portal/results
// Returns the caller's persisted results, most recent first.
func (h *PortalHandler) ListMyResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.resultService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
