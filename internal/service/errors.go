package service

import (
	"errors"
	"fmt"

	"github.com/ecotrack/gamification/internal/validation"
)

var (
	ErrActorNotFound  = errors.New("actor not found")
	ErrActorExists    = errors.New("actor already exists")
	ErrLedgerMismatch = errors.New("cached points total diverges from ledger")
)

// ValidationError is returned before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransactionError wraps a storage failure inside the increment+award
// envelope. The transaction has been rolled back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func validateInput(in interface{}) error {
	err := validation.ValidateStruct(in)
	if err == nil {
		return nil
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return invalid(fe.Field, fe.Message())
	}
	return err
}

// classify leaves domain errors untouched and wraps everything else.
func classify(op string, err error) error {
	var ve *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrActorNotFound), errors.As(err, &ve):
		return err
	default:
		var te *TransactionError
		if errors.As(err, &te) {
			return err
		}
		return &TransactionError{Op: op, Err: err}
	}
}
