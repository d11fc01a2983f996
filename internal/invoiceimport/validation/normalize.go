// Package validation turns untyped invoice-import drafts into typed records
// and decides whether each record can be persisted.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/pkg/numeric"
)

const dateLayout = "2006-01-02"

// NormalizeRecord parses one raw draft record. Unknown enum values fall back
// to their defaults and blank strings become nil. index is zero-based.
func NormalizeRecord(raw any, index int) domain.Record {
	fields, _ := raw.(map[string]any)

	rec := domain.Record{
		ID:                   stringOr(fields["id"], fmt.Sprintf("invoice-draft-%d", index+1)),
		SourceFileNames:      sourceFileNames(fields),
		Resource:             domain.ParseResource(fields["resource"]),
		Confidence:           domain.ParseConfidence(fields["confidence"]),
		DocumentType:         domain.ParseDocumentType(fields["documentType"]),
		DocumentDate:         dateField(fields["documentDate"]),
		DueDate:              dateField(fields["dueDate"]),
		Amount:               amountField(fields["amount"]),
		Description:          stringField(fields["description"]),
		InvoiceRef:           stringField(fields["invoiceRef"]),
		Notes:                stringField(fields["notes"]),
		ClientID:             stringField(fields["clientId"]),
		ProjectID:            stringField(fields["projectId"]),
		PaymentType:          domain.ParsePaymentType(fields["paymentType"]),
		PaymentMethod:        domain.ParsePaymentMethod(fields["paymentMethod"]),
		PaymentStatus:        domain.ParsePaymentStatus(fields["paymentStatus"]),
		ExpenseType:          domain.ParseExpenseType(fields["expenseType"]),
		CounterpartyName:     stringField(fields["counterpartyName"]),
		BillingName:          stringField(fields["billingName"]),
		VATNumber:            stringField(fields["vatNumber"]),
		FiscalCode:           stringField(fields["fiscalCode"]),
		BillingAddressStreet: stringField(fields["billingAddressStreet"]),
		BillingAddressNumber: stringField(fields["billingAddressNumber"]),
		BillingPostalCode:    stringField(fields["billingPostalCode"]),
		BillingCity:          stringField(fields["billingCity"]),
		BillingProvince:      stringField(fields["billingProvince"]),
		BillingCountry:       stringField(fields["billingCountry"]),
		BillingSDICode:       stringField(fields["billingSdiCode"]),
		BillingPEC:           stringField(fields["billingPec"]),
	}
	return rec
}

// ValidatePayload checks the top-level draft shape and normalizes every
// record. Errors are *domain.ConfirmError wrapping domain.ErrInvalidPayload.
func ValidatePayload(raw any) (domain.Payload, error) {
	body, ok := raw.(map[string]any)
	if !ok {
		return domain.Payload{}, domain.NewPayloadError(domain.MessageInvalidPayload)
	}
	draft, ok := body["draft"].(map[string]any)
	if !ok {
		return domain.Payload{}, domain.NewPayloadError(domain.MessageMissingDraft)
	}
	rawRecords, _ := draft["records"].([]any)
	if len(rawRecords) == 0 {
		return domain.Payload{}, domain.NewPayloadError(domain.MessageNoRecords)
	}

	records := make([]domain.Record, 0, len(rawRecords))
	for i, item := range rawRecords {
		records = append(records, NormalizeRecord(item, i))
	}

	warnings := []string{}
	if items, ok := draft["warnings"].([]any); ok {
		for _, item := range items {
			if s := stringField(item); s != nil {
				warnings = append(warnings, *s)
			}
		}
	}

	return domain.Payload{Draft: domain.Draft{
		Model:       stringOr(draft["model"], ""),
		GeneratedAt: stringOr(draft["generatedAt"], ""),
		Summary:     stringOr(draft["summary"], ""),
		Warnings:    warnings,
		Records:     records,
	}}, nil
}

func stringField(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func stringOr(v any, def string) string {
	if s := stringField(v); s != nil {
		return *s
	}
	return def
}

func amountField(v any) *float64 {
	f, ok := numeric.Coerce(v)
	if !ok {
		return nil
	}
	return &f
}

// dateField accepts a calendar day or a full RFC 3339 timestamp and keeps
// only the day.
func dateField(v any) *string {
	s := stringField(v)
	if s == nil {
		return nil
	}
	if t, err := time.Parse(dateLayout, *s); err == nil {
		out := t.Format(dateLayout)
		return &out
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		out := t.Format(dateLayout)
		return &out
	}
	return nil
}

func sourceFileNames(fields map[string]any) []string {
	out := []string{}
	if items, ok := fields["sourceFileNames"].([]any); ok {
		for _, item := range items {
			if s := stringField(item); s != nil {
				out = append(out, *s)
			}
		}
	}
	if len(out) == 0 {
		if s := stringField(fields["sourceFileName"]); s != nil {
			out = append(out, *s)
		}
	}
	return out
}
