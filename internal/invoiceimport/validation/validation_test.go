package validation

import (
	"errors"
	"strings"
	"testing"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeRecordDefaults(t *testing.T) {
	rec := NormalizeRecord(map[string]any{
		"resource":      "invoices",
		"paymentStatus": "pagato",
		"description":   "   ",
		"clientId":      "  client-1 ",
		"amount":        "1.234,50",
		"documentDate":  "2025-03-04T10:00:00Z",
		"dueDate":       "not a date",
	}, 2)

	assert.Equal(t, "invoice-draft-3", rec.ID)
	assert.Equal(t, domain.ResourceExpenses, rec.Resource)
	assert.Equal(t, domain.ConfidenceMedium, rec.Confidence)
	assert.Equal(t, domain.DocumentUnknown, rec.DocumentType)
	assert.Equal(t, crmdomain.PaymentTypeSaldo, rec.PaymentType)
	assert.Equal(t, crmdomain.PaymentMethodBonifico, rec.PaymentMethod)
	assert.Equal(t, crmdomain.PaymentStatusInAttesa, rec.PaymentStatus)
	assert.Equal(t, crmdomain.ExpenseTypeAcquistoMateriale, rec.ExpenseType)
	assert.Nil(t, rec.Description)
	require.NotNil(t, rec.ClientID)
	assert.Equal(t, "client-1", *rec.ClientID)
	require.NotNil(t, rec.Amount)
	assert.Equal(t, 1234.5, *rec.Amount)
	require.NotNil(t, rec.DocumentDate)
	assert.Equal(t, "2025-03-04", *rec.DocumentDate)
	assert.Nil(t, rec.DueDate)
	assert.Empty(t, rec.SourceFileNames)
}

func TestNormalizeRecordAmountNotation(t *testing.T) {
	english := NormalizeRecord(map[string]any{"amount": "1,234.50"}, 0)
	require.NotNil(t, english.Amount)
	assert.Equal(t, 1234.5, *english.Amount)

	ambiguous := NormalizeRecord(map[string]any{
		"resource":     "expenses",
		"amount":       "1.234",
		"documentDate": "2025-01-01",
		"expenseType":  "noleggio",
	}, 0)
	assert.Nil(t, ambiguous.Amount)
	assert.Equal(t, []string{FieldAmount}, ValidationErrors(ambiguous, nil))
}

func TestNormalizeRecordNonObject(t *testing.T) {
	rec := NormalizeRecord("garbage", 0)
	assert.Equal(t, "invoice-draft-1", rec.ID)
	assert.Nil(t, rec.Amount)
}

func TestValidatePayload(t *testing.T) {
	cases := []struct {
		name    string
		raw     any
		message string
	}{
		{name: "not an object", raw: []any{}, message: domain.MessageInvalidPayload},
		{name: "missing draft", raw: map[string]any{}, message: domain.MessageMissingDraft},
		{name: "no records", raw: map[string]any{"draft": map[string]any{"records": []any{}}}, message: domain.MessageNoRecords},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePayload(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidPayload))
			assert.Equal(t, tc.message, err.Error())
		})
	}

	payload, err := ValidatePayload(map[string]any{
		"draft": map[string]any{
			"model":    "gemini-2.5-pro",
			"warnings": []any{"check vat", ""},
			"records": []any{
				map[string]any{"id": "r1", "resource": "payments"},
				map[string]any{},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", payload.Draft.Model)
	assert.Equal(t, []string{"check vat"}, payload.Draft.Warnings)
	require.Len(t, payload.Draft.Records, 2)
	assert.Equal(t, "r1", payload.Draft.Records[0].ID)
	assert.Equal(t, domain.ResourcePayments, payload.Draft.Records[0].Resource)
	assert.Equal(t, "invoice-draft-2", payload.Draft.Records[1].ID)
}

func TestValidationErrorsWithoutWorkspace(t *testing.T) {
	rec := domain.Record{
		Resource:      domain.ResourcePayments,
		Amount:        floatPtr(0),
		PaymentType:   crmdomain.PaymentTypeSaldo,
		PaymentStatus: crmdomain.PaymentStatusRicevuto,
	}
	assert.Equal(t, []string{FieldAmount, FieldDocumentDate, FieldClient}, ValidationErrors(rec, nil))

	expense := domain.Record{
		Resource:     domain.ResourceExpenses,
		Amount:       floatPtr(12),
		DocumentDate: strPtr("2025-01-01"),
		ExpenseType:  "bogus",
	}
	assert.Equal(t, []string{FieldExpenseType}, ValidationErrors(expense, nil))
}

func TestValidationErrorsClientProjectMismatch(t *testing.T) {
	ws := &crmdomain.Workspace{
		ClientIDs: []string{"client-a", "client-b"},
		Projects:  []crmdomain.WorkspaceProject{{ID: "project-b", ClientID: "client-b"}},
	}
	rec := domain.Record{
		Resource:      domain.ResourcePayments,
		Amount:        floatPtr(100),
		DocumentDate:  strPtr("2025-01-01"),
		ClientID:      strPtr("client-a"),
		ProjectID:     strPtr("project-b"),
		PaymentType:   crmdomain.PaymentTypeSaldo,
		PaymentStatus: crmdomain.PaymentStatusInAttesa,
	}

	assert.Contains(t, ValidationErrors(rec, ws), FieldClientProject)
	assert.Empty(t, ValidationErrors(rec, nil))

	rec.ClientID = strPtr("client-x")
	rec.ProjectID = strPtr("project-x")
	assert.Equal(t, []string{FieldValidClient, FieldValidProject}, ValidationErrors(rec, ws))
}

func TestPaymentDate(t *testing.T) {
	rec := domain.Record{
		DocumentDate:  strPtr("2025-01-10"),
		DueDate:       strPtr("2025-02-10"),
		PaymentStatus: crmdomain.PaymentStatusInAttesa,
	}
	assert.Equal(t, "2025-02-10", *PaymentDate(rec))

	rec.PaymentStatus = crmdomain.PaymentStatusRicevuto
	assert.Equal(t, "2025-01-10", *PaymentDate(rec))

	rec.PaymentStatus = crmdomain.PaymentStatusScaduto
	rec.DueDate = nil
	assert.Equal(t, "2025-01-10", *PaymentDate(rec))

	rec.DocumentDate = nil
	assert.Nil(t, PaymentDate(rec))
}

func TestBuildNotes(t *testing.T) {
	rec := domain.Record{
		SourceFileNames:   []string{"fattura.pdf"},
		Confidence:        domain.ConfidenceHigh,
		DocumentType:      domain.DocumentCustomerInvoice,
		DueDate:           strPtr("2025-02-10"),
		BillingName:       strPtr("Rossi Srl"),
		VATNumber:         strPtr("IT01234567890"),
		BillingCity:       strPtr("Milano"),
		BillingPostalCode: strPtr("20100"),
		Notes:             strPtr("Saldo evento"),
	}

	notes := BuildNotes(rec, "gemini-2.5-pro")
	lines := strings.Split(notes, "\n")

	assert.Equal(t, "Saldo evento", lines[0])
	assert.Contains(t, lines, "Scadenza: 2025-02-10")
	assert.Contains(t, lines, "Intestatario fiscale: Rossi Srl")
	assert.Contains(t, lines, "P.IVA: IT01234567890")
	assert.Contains(t, lines, "Indirizzo fiscale: 20100 Milano")
	assert.Contains(t, lines, "File sorgente: fattura.pdf")
	assert.Contains(t, lines, "Tipo documento: Fattura cliente")
	assert.Contains(t, lines, "Confidenza AI: alta")
	assert.Contains(t, lines, "Modello estrazione: gemini-2.5-pro")
	assert.Equal(t, AuditMarker, lines[len(lines)-1])
	assert.NotContains(t, notes, "CF:")
	assert.NotContains(t, notes, "\n\n")
}
