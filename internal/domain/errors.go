package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSecretNotFound        = errors.New("secret not found")
	ErrCredentialUnavailable = errors.New("credential unavailable")
	ErrUserCancelled         = errors.New("skipped by user")
	ErrPromptUnavailable     = errors.New("interactive prompt unavailable")
	ErrMalformedCredential   = errors.New("malformed credential")
)

type FailureKind string

const (
	FailureCredentialUnavailable FailureKind = "credential_unavailable"
	FailureUserCancelled         FailureKind = "user_cancelled"
	FailureMalformedCredential   FailureKind = "malformed_credential"
	FailureAuthentication        FailureKind = "authentication"
	FailureNetwork               FailureKind = "network"
	FailureRateLimited           FailureKind = "rate_limited"
	FailureMalformedResponse     FailureKind = "malformed_response"
	FailureSession               FailureKind = "session"
	FailureRejected              FailureKind = "rejected"
	FailureUnsupported           FailureKind = "unsupported"
	FailureCancelled             FailureKind = "cancelled"
	FailureUnknown               FailureKind = "unknown"
)

// PostError is the typed failure returned by platform adapters.
type PostError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *PostError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind.Label(), e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind.Label(), e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind.Label(), e.Err)
	default:
		return e.Kind.Label()
	}
}

func (e *PostError) Unwrap() error { return e.Err }

func NewPostError(kind FailureKind, message string, err error) *PostError {
	return &PostError{Kind: kind, Message: message, Err: err}
}

func (k FailureKind) Label() string {
	switch k {
	case FailureCredentialUnavailable:
		return "credential unavailable"
	case FailureUserCancelled:
		return "skipped by user"
	case FailureMalformedCredential:
		return "malformed credential"
	case FailureAuthentication:
		return "authentication failed"
	case FailureNetwork:
		return "network error"
	case FailureRateLimited:
		return "rate limited"
	case FailureMalformedResponse:
		return "malformed response"
	case FailureSession:
		return "session failed"
	case FailureRejected:
		return "rejected"
	case FailureUnsupported:
		return "unsupported"
	case FailureCancelled:
		return "run cancelled"
	default:
		return "failed"
	}
}

// ClassifyError maps any error from resolution or posting to a failure kind.
func ClassifyError(err error) FailureKind {
	var postErr *PostError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &postErr):
		return postErr.Kind
	case errors.Is(err, ErrUserCancelled):
		return FailureUserCancelled
	case errors.Is(err, ErrMalformedCredential):
		return FailureMalformedCredential
	case errors.Is(err, ErrCredentialUnavailable):
		return FailureCredentialUnavailable
	default:
		return FailureUnknown
	}
}
