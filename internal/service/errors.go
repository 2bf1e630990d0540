package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

type ErrorType int

const (
	ErrFileNotFound ErrorType = iota
	ErrFileRead
	ErrSession
	ErrTranslation
	ErrConfig
	ErrUnknown
)

// TranslatorError is the typed error surfaced at the session boundary and in the worker.
type TranslatorError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *TranslatorError {
	return &TranslatorError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *TranslatorError {
	return &TranslatorError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *TranslatorError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *TranslatorError) Unwrap() error {
	return e.Cause
}

func (e *TranslatorError) WithContext(key string, value any) *TranslatorError {
	e.Context[key] = value
	return e
}

// Advice is operator-facing guidance for the error type.
func (e *TranslatorError) Advice() string {
	return GetAdvice(e.Type)
}

func (t ErrorType) String() string {
	switch t {
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrFileRead:
		return "FileRead"
	case ErrSession:
		return "Session"
	case ErrTranslation:
		return "Translation"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// GetAdvice returns error handling advice
func GetAdvice(t ErrorType) string {
	switch t {
	case ErrFileNotFound:
		return "Check that the log directory is correct and that Train Driver 2 has written at least one log file there"
	case ErrFileRead:
		return "Check read permissions on the log file and that no other program holds it exclusively"
	case ErrSession:
		return "Start translation from a log directory before restarting it"
	case ErrTranslation:
		return "A chat batch could not be processed; the next batch will be tried normally"
	case ErrConfig:
		return "Check the environment variables or .env file"
	default:
		return "Review the log output for details"
	}
}

// Handle logs err with advice when it is a TranslatorError and reports whether it was.
func Handle(err error) bool {
	var tErr *TranslatorError
	if !errors.As(err, &tErr) {
		log.Error("Unknown error: %v", err)
		return false
	}
	log.Error("%v\n advice: %s", tErr, tErr.Advice())
	return true
}

func IsErrorType(err error, errorType ErrorType) bool {
	var tErr *TranslatorError
	if errors.As(err, &tErr) {
		return tErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *TranslatorError {
	return NewErrorWithCause(errorType, message, err)
}

// SafeExecute runs fn, converting a panic into an ErrUnknown error.
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
