package shared

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the input failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden indicates the caller lacks permission or branch access.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBranchRequired indicates a branch-owned record or user arrived
	// without a branch id. This is rejected at the ingestion boundary;
	// the authorization core never patches over a missing branch.
	ErrBranchRequired = errors.New("branch id required")
)
