package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrUnknownSubject ErrCode = "UNKNOWN_SUBJECT"
	ErrContentLoad    ErrCode = "CONTENT_LOAD_FAILED"

	// ─── Notes ─────────────────────────────────────────────────────────
	ErrNoOpenNote        ErrCode = "NO_OPEN_NOTE"
	ErrRenderUnavailable ErrCode = "RENDER_UNAVAILABLE"

	// ─── Quiz ──────────────────────────────────────────────────────────
	ErrEmptyPool         ErrCode = "EMPTY_POOL"
	ErrNoQuiz            ErrCode = "NO_QUIZ"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrUnknownSubject:
		return "Unknown subject."
	case ErrContentLoad:
		return "Content could not be loaded. Please try again later."

	// ─── Notes ─────────────────────────────────────────────────────────
	case ErrNoOpenNote:
		return "No note is currently open."
	case ErrRenderUnavailable:
		return "PDF export is not available right now."

	// ─── Quiz ──────────────────────────────────────────────────────────
	case ErrEmptyPool:
		return "No questions available for this subject."
	case ErrNoQuiz:
		return "No quiz in progress."
	case ErrInvalidTransition:
		return "That action is not allowed at this point of the quiz."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
