package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
	ErrValidation  = errors.New("validation failed")
)

type EntityKind string

const (
	KindProject      EntityKind = "project"
	KindProgramme    EntityKind = "programme"
	KindWorkingPaper EntityKind = "working paper"
	KindIssue        EntityKind = "issue"
)

// NotFoundError is returned when a referenced id is absent.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateIDError is returned when an insert collides with an existing id.
type DuplicateIDError struct {
	Kind EntityKind
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
