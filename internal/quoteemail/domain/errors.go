package domain

import "errors"

var (
	ErrInvalidMode    = errors.New("invalid_send_mode")
	ErrSendNotAllowed = errors.New("send_not_allowed")
	ErrNoRecipient    = errors.New("missing_recipient")
)

// SendNotAllowedError explains why a status email was refused.
type SendNotAllowedError struct {
	Reason  string
	Missing []string
}

func (e *SendNotAllowedError) Error() string {
	return e.Reason
}

func (e *SendNotAllowedError) Unwrap() error {
	return ErrSendNotAllowed
}
