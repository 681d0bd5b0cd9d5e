package domain

import (
	"errors"
	"fmt"
)

// Сентинелы для errors.Is. Конкретные типы ниже содержат контекст ошибки.
var (
	ErrNotFound         = errors.New("chat export not found")
	ErrMalformedExport  = errors.New("malformed chat export")
	ErrEmptyChat        = errors.New("chat has no valid messages")
	ErrInsufficientData = errors.New("insufficient data")
)

// NotFoundError - путь не существует или не содержит файлов экспорта.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrNotFound, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedExportError - файл не является корректным JSON.
// Прерывает обработку всего чата: частичные данные исказили бы всю статистику.
type MalformedExportError struct {
	ChatID string
	File   string
	Err    error
}

func (e *MalformedExportError) Error() string {
	return fmt.Sprintf("%s: chat %q, file %q: %v", ErrMalformedExport, e.ChatID, e.File, e.Err)
}

func (e *MalformedExportError) Is(target error) bool {
	return target == ErrMalformedExport
}

func (e *MalformedExportError) Unwrap() error {
	return e.Err
}

// EmptyChatError - после нормализации не осталось ни одной записи.
type EmptyChatError struct {
	ChatID  string
	Skipped int
}

func (e *EmptyChatError) Error() string {
	return fmt.Sprintf("%s: chat %q (%d records skipped)", ErrEmptyChat, e.ChatID, e.Skipped)
}

func (e *EmptyChatError) Is(target error) bool {
	return target == ErrEmptyChat
}

// InsufficientDataError - статистика вызвана на пустой последовательности.
type InsufficientDataError struct {
	Statistic string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s requires at least one message", ErrInsufficientData, e.Statistic)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ErrorKind возвращает машинно-читаемый вид ошибки для хоста.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedExport):
		return "malformed_export"
	case errors.Is(err, ErrEmptyChat):
		return "empty_chat"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	default:
		return "internal"
	}
}
