package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference means the project reference could not be
	// resolved to an id: a URL without an id query parameter, or a
	// reference the vendor does not recognize.
	ErrInvalidReference = errors.New("invalid project reference")

	// ErrMissingContact aborts assembly when the contact name or phone
	// ends up empty after defaults are applied.
	ErrMissingContact = errors.New("contact name and phone are required")

	// ErrEmptyRoster means the account has no buyers or addresses on file.
	// Not a bug: the user has to add them in the vendor's own app.
	ErrEmptyRoster = errors.New("nothing to choose from")
)

// VendorError is a non-zero vendor status with the message it carried.
type VendorError struct {
	Code    int
	Message string
}

func (e *VendorError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vendor error %d", e.Code)
	}
	return fmt.Sprintf("vendor error %d: %s", e.Code, e.Message)
}

// LoginFailure classifies terminal QR-login outcomes.
type LoginFailure int

const (
	LoginFailureChallengeUnavailable LoginFailure = iota
	LoginFailureExpired
	LoginFailureRejected
	LoginFailureTimeout
)

func (f LoginFailure) String() string {
	switch f {
	case LoginFailureChallengeUnavailable:
		return "could not obtain a login QR code"
	case LoginFailureExpired:
		return "the QR code expired"
	case LoginFailureRejected:
		return "the login was rejected"
	case LoginFailureTimeout:
		return "the login timed out"
	}
	return "login failed"
}

// LoginError is a terminal login failure, with the vendor's message when
// one was given.
type LoginError struct {
	Reason  LoginFailure
	Message string
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return e.Reason.String()
}
