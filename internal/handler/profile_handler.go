package handler

import (
	"net/http"

	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/conceptdelta/examdesk/internal/validator"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile completion and the gate snapshot endpoint.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile godoc
// GET /api/v1/profile
// Returns the caller's profile. A missing profile is reported as
// PROFILE_REQUIRED so the client can route to setup.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, exists, err := h.profileService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !exists {
		response.Fail(c, http.StatusNotFound, response.ErrProfileRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// SaveProfile godoc
// PUT /api/v1/profile
// Creates or updates the caller's profile. Never touches the admin-visited
// flag.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SaveProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.profileService.Save(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// GetGates godoc
// GET /api/v1/profile/gates
// Returns the caller's gate decisions in one snapshot so the client renders
// from resolved facts instead of assembling them piecemeal.
func (h *ProfileHandler) GetGates(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	eval, err := h.profileService.BuildEvaluator(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"role":         claims.Role,
		"profile_gate": eval.ProfileGate(),
		"admin_gate":   eval.AdminGate(),
	})
}
