package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrUnindexed      = errors.New("record not indexed")
	ErrInvalidTable   = errors.New("invalid table")
	ErrDigestMismatch = errors.New("digest mismatch")
	ErrAmbiguousID    = errors.New("ambiguous build id")
)

// MalformedInputError reports a raw definition the compiler cannot accept.
type MalformedInputError struct {
	Key    string // Raw key as received from the source
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed reference %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrMalformedInput.
func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// DuplicateNameError reports two records sharing a name within one group.
type DuplicateNameError struct {
	Group Group
	Name  string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s reference name %q", e.Group, e.Name)
}

// Unwrap returns ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}
