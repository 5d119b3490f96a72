package models

import "fmt"

// ValidationError reports a missing required field or a malformed value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateCodeError reports an attempt to store a code that is already taken.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("person with code %q already exists", e.Code)
}

// ParentNotFoundError reports a parent code that does not resolve.
type ParentNotFoundError struct {
	Code string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("parent %q not found", e.Code)
}

// PartnerNotFoundError reports a partner code that does not resolve.
type PartnerNotFoundError struct {
	Code string
}

func (e *PartnerNotFoundError) Error() string {
	return fmt.Sprintf("partner %q not found", e.Code)
}

// PersonNotFoundError reports an edit or delete target that does not resolve.
type PersonNotFoundError struct {
	Code string
}

func (e *PersonNotFoundError) Error() string {
	return fmt.Sprintf("person %q not found", e.Code)
}
