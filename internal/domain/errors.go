package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrAlreadyProcessed  = errors.New("request has already been processed")
	ErrDuplicatePassword = errors.New("password has already been issued")
)

// ValidationError names the required submission fields that were missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// MailDeliveryError reports a failed notification send. The state change that
// preceded the send stands; callers surface this as a soft failure.
type MailDeliveryError struct {
	Op  string
	Err error
}

func (e *MailDeliveryError) Error() string {
	return fmt.Sprintf("%s: email delivery failed: %v", e.Op, e.Err)
}

func (e *MailDeliveryError) Unwrap() error {
	return e.Err
}
