package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrInvalidOldPassword ErrCode = "INVALID_OLD_PASSWORD"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Password reset ────────────────────────────────────────────────
	ErrInvalidOTP        ErrCode = "INVALID_OTP"
	ErrOTPExpired        ErrCode = "OTP_EXPIRED"
	ErrOTPDeliveryFailed ErrCode = "OTP_DELIVERY_FAILED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden      ErrCode = "FORBIDDEN"
	ErrInstructorOnly ErrCode = "INSTRUCTOR_ACCESS_ONLY"
	ErrNotCourseOwner ErrCode = "NOT_COURSE_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrQuizNotFound ErrCode = "QUIZ_NOT_FOUND"
	ErrUserNotFound ErrCode = "USER_NOT_FOUND"
	ErrConflict     ErrCode = "CONFLICT"
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrInvalidOldPassword:
		return "Invalid old password."
	case ErrTokenRequired:
		return "Not authenticated."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrTokenRevoked:
		return "This session has been logged out."

	case ErrInvalidOTP:
		return "Invalid OTP."
	case ErrOTPExpired:
		return "OTP expired."
	case ErrOTPDeliveryFailed:
		return "Failed to send OTP. Please request a new one."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrInstructorOnly:
		return "Only instructors can perform this action."
	case ErrNotCourseOwner:
		return "You are not the instructor of this course."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."
	case ErrQuizNotFound:
		return "Quiz not found."
	case ErrUserNotFound:
		return "User not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrEmailTaken:
		return "User with this email already exists."

	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File exceeds the size limit."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Something went wrong on the server."
	default:
		return "An unexpected error occurred."
	}
}
