package schema

import (
	"errors"
)

var (
	ErrNotExist = errors.New("not_exist_record")
	ErrNotFound = errors.New("not_found")

	ErrNameTooShort  = errors.New("name_too_short")
	ErrNameTooLong   = errors.New("name_too_long")
	ErrNameBadChar   = errors.New("character_not_allowed")
	ErrNameBadTld    = errors.New("invalid_top_level_domain")
	ErrNameNoTld     = errors.New("missing_top_level_domain")
	ErrNameBadLabels = errors.New("name_must_have_two_labels")
	ErrNameNotUtf8   = errors.New("name_not_valid_utf8")
	ErrNameZeroLabel = errors.New("empty_label")

	ErrNameNotAvailable  = errors.New("name_not_available")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrNotAllowed        = errors.New("not_allowed")
	ErrAlreadyExists     = errors.New("already_exists")
	ErrDeadlineExceeded  = errors.New("deadline_exceeded")
	ErrExternalCall      = errors.New("external_call_failed")

	ErrInvalidDuration = errors.New("invalid_duration")
	ErrOverflow        = errors.New("arithmetic_overflow")
	ErrSelfTransfer    = errors.New("self_transfer")
	ErrCertMismatch    = errors.New("certificate_mismatch")
	ErrNoRate          = errors.New("exchange_rate_unset")

	ErrNotImplement = errors.New("method not implement")
)
