package middleware

import (
	"net/http"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// CheckSingleDeviceSession validates the JWT's JTI against the active session
// in Redis. A mismatch means the user signed in elsewhere and this token was
// superseded.
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Admins are exempt; only student sessions are single-device.
		if claims.Role == model.RoleAdmin {
			c.Next()
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
