package service

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock is wrapped in a TransactionError when a checkout would
// take a product's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ValidationError reports a missing or invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError reports a uniqueness violation (sku, email) or a replayed request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a lookup by id that matched nothing.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// TransactionError wraps any failure inside the sale transaction. The
// transaction has been rolled back by the time it is returned.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("sale could not be processed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func missingFields(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "missing required fields"}
}
