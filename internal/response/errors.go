package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// Authorization
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrAdminVisitUsed  ErrCode = "ADMIN_VISIT_USED"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Profile gating
	ErrProfileRequired ErrCode = "PROFILE_REQUIRED"
	ErrProfileExists   ErrCode = "PROFILE_EXISTS"

	// Attempts
	ErrAttemptActive    ErrCode = "ATTEMPT_ALREADY_ACTIVE"
	ErrNoActiveAttempt  ErrCode = "NO_ACTIVE_ATTEMPT"
	ErrAttemptSubmitted ErrCode = "ATTEMPT_ALREADY_SUBMITTED"
	ErrSubmitFailed     ErrCode = "SUBMIT_FAILED"

	// Test management
	ErrNoQuestions    ErrCode = "NO_QUESTIONS"
	ErrQuestionInUse  ErrCode = "QUESTION_IN_USE"
	ErrInvalidOption  ErrCode = "INVALID_OPTION"
	ErrInvalidMarking ErrCode = "INVALID_MARKING_SCHEME"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrAdminVisitUsed:
		return "The admin panel is only accessible on first login."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrProfileRequired:
		return "Complete your profile before taking tests."
	case ErrProfileExists:
		return "A profile already exists for this account."

	case ErrAttemptActive:
		return "You already have an attempt in progress for this test."
	case ErrNoActiveAttempt:
		return "No attempt is in progress for this test."
	case ErrAttemptSubmitted:
		return "This attempt has already been submitted."
	case ErrSubmitFailed:
		return "Failed to submit the test. Please try again."

	case ErrNoQuestions:
		return "This test has no questions."
	case ErrQuestionInUse:
		return "The question is referenced by an existing test."
	case ErrInvalidOption:
		return "The selected option is not one of the allowed choices."
	case ErrInvalidMarking:
		return "The marking scheme values are out of range."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
