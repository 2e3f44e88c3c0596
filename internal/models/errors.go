package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrDependency = errors.New("dependency failure")
)

var (
	ErrSelfApplication      = fmt.Errorf("%w: cannot apply to own job post", ErrForbidden)
	ErrDuplicateApplication = fmt.Errorf("%w: already applied to this job", ErrConflict)
	ErrNotJobAuthor         = fmt.Errorf("%w: not the author of this job post", ErrForbidden)
	ErrInvalidStatus        = fmt.Errorf("%w: status must be accepted or rejected", ErrValidation)
	ErrApplicationNotFound  = fmt.Errorf("%w: application", ErrNotFound)
	ErrAlreadyDecided       = fmt.Errorf("%w: application was already decided", ErrConflict)

	ErrJobNotFound        = fmt.Errorf("%w: job post", ErrNotFound)
	ErrCompanyNotVerified = fmt.Errorf("%w: company account is not approved", ErrForbidden)

	ErrRoomNotFound       = fmt.Errorf("%w: chat room", ErrNotFound)
	ErrNotRoomParticipant = fmt.Errorf("%w: not a participant of this chat room", ErrForbidden)
	ErrInvalidMessageType = fmt.Errorf("%w: unsupported message type", ErrValidation)
	ErrEmptyMessage       = fmt.Errorf("%w: message is empty", ErrValidation)

	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrDuplicateUsername  = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrForbidden)
	ErrAdminOnly          = fmt.Errorf("%w: admin only", ErrForbidden)

	ErrResumeNotFound      = fmt.Errorf("%w: resume", ErrNotFound)
	ErrCertificateNotFound = fmt.Errorf("%w: certificate", ErrNotFound)
	ErrStorageUpload       = fmt.Errorf("%w: object storage upload failed", ErrDependency)
	ErrStorageDelete       = fmt.Errorf("%w: object storage delete failed", ErrDependency)
	ErrOAuthProvider       = fmt.Errorf("%w: oauth provider", ErrDependency)
)

// Validationf builds a validation error with a field specific message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
