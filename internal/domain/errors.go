package domain

import (
	"errors"
	"fmt"
)

// Каждая ошибка таксономии сопоставляется со своим sentinel через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
)

// ValidationError некорректный ввод (400).
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError сущность не найдена (404).
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError нарушение уникальности (409).
type DuplicateError struct {
	Message string
}

func NewDuplicateError(format string, args ...any) *DuplicateError {
	return &DuplicateError{Message: fmt.Sprintf(format, args...)}
}

func (e *DuplicateError) Error() string { return e.Message }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// Имена сущностей для NotFoundError
const (
	EntityFilm  = "film"
	EntityUser  = "user"
	EntityGenre = "genre"
	EntityMpa   = "mpa"
)
