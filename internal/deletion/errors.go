package deletion

import "errors"

var (
	ErrTargetNotFound     = errors.New("target not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrInvalidState       = errors.New("invalid job state")
	ErrUnknownMethod      = errors.New("unknown deletion method")
	ErrVerificationFailed = errors.New("destruction verification failed")
	ErrCancelled          = errors.New("job cancelled")
)
