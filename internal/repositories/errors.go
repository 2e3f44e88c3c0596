package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrJobNotFound         = errors.New("job post not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationDecided  = errors.New("application is no longer pending")
	ErrRoomNotFound        = errors.New("chat room not found")
	ErrResumeNotFound      = errors.New("resume not found")
	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate row")
)

const uniqueViolation = pq.ErrorCode("23505")

// translate maps driver errors onto package sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
