package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies component-level failures so the HTTP layer can map
// them to status codes without string matching.
type ErrorKind string

const (
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindMissingField      ErrorKind = "missing_field"
	KindEmptyDataset      ErrorKind = "empty_dataset"
	KindEmptyInput        ErrorKind = "empty_input"
	KindNotFound          ErrorKind = "not_found"
	KindRemoteService     ErrorKind = "remote_service_error"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func appErr(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func wrapErr(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the error's kind, or "" for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
