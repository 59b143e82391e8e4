package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle is returned when a todo is created without a title.
	ErrEmptyTitle = errors.New("todo title cannot be empty")

	// ErrEmptyContent is returned when a context entry has no content.
	ErrEmptyContent = errors.New("context entry content cannot be empty")

	// ErrInvalidPriority is returned when a priority is not one of the
	// recognized levels.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidTodoStatus is returned when a todo status is not valid.
	ErrInvalidTodoStatus = errors.New("invalid todo status")

	// ErrInvalidAnalysisStatus is returned when an analysis status is not valid.
	ErrInvalidAnalysisStatus = errors.New("invalid analysis status")

	// ErrInvalidContextSource is returned when a context source is not valid.
	ErrInvalidContextSource = errors.New("invalid context source")

	// ErrInvalidAnalysisKind is returned when an analysis record kind is not valid.
	ErrInvalidAnalysisKind = errors.New("invalid analysis kind")

	// ErrEmptySubjectID is returned when an analysis record has no subject.
	ErrEmptySubjectID = errors.New("analysis subject ID cannot be empty")
)
