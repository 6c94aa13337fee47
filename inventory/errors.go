package inventory

import (
	"errors"
	"fmt"
)

// 错误种类。全部是同步、不可重试的前置条件失败：调用方应基于最新状态重新构造命令。
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrDuplicate         = errors.New("duplicate")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
)

// DuplicateError names the identity field that collided during registration or profile edit.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %q is already registered", e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func notFound(kind, id string) error { return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id) }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
