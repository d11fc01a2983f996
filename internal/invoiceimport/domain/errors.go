package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPayload    = errors.New("invalid_payload")
	ErrNotConfirmable    = errors.New("record_not_confirmable")
	ErrDuplicate         = errors.New("duplicate_record")
	ErrConfirmInProgress = errors.New("confirm_in_progress")
)

const (
	MessageInvalidPayload = "Payload non valido."
	MessageMissingDraft   = "Bozza import mancante."
	MessageNoRecords      = "Non c'e' nessun record da confermare."
	MessageInProgress     = "Un'altra conferma import e' gia' in corso. Riprova tra poco."
)

// ConfirmError carries the user-facing message of a rejected confirmation
// together with the record that caused it.
type ConfirmError struct {
	Kind       error
	Message    string
	RecordID   string
	Resource   Resource
	InvoiceRef *string
	Missing    []string
}

func (e *ConfirmError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *ConfirmError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func NewPayloadError(message string) *ConfirmError {
	return &ConfirmError{Kind: ErrInvalidPayload, Message: message}
}

func NewNotConfirmableError(record Record, missing []string) *ConfirmError {
	return &ConfirmError{
		Kind:       ErrNotConfirmable,
		Message:    fmt.Sprintf("Il record %s non e' confermabile: mancano %s.", record.ID, strings.Join(missing, ", ")),
		RecordID:   record.ID,
		Resource:   record.Resource,
		InvoiceRef: record.InvoiceRef,
		Missing:    missing,
	}
}

func NewDuplicateError(record Record) *ConfirmError {
	ref := "senza riferimento"
	if record.InvoiceRef != nil {
		ref = *record.InvoiceRef
	}
	noun := "una spesa"
	if record.Resource == ResourcePayments {
		noun = "un pagamento"
	}
	return &ConfirmError{
		Kind:       ErrDuplicate,
		Message:    fmt.Sprintf("Esiste gia' %s identico per la fattura %s.", noun, ref),
		RecordID:   record.ID,
		Resource:   record.Resource,
		InvoiceRef: record.InvoiceRef,
	}
}
