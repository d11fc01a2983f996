package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/gestionale/internal/clock"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	crmrepository "github.com/smallbiznis/gestionale/internal/crm/repository"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/repository"
	"github.com/smallbiznis/gestionale/internal/migration"
	"github.com/smallbiznis/gestionale/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T, name string) (domain.Service, *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest(name, migration.Models()...)
	require.NoError(t, err)

	require.NoError(t, conn.Create(&[]crmdomain.Client{{ID: "client-a", Name: "Alfa"}, {ID: "client-b", Name: "Beta"}}).Error)
	require.NoError(t, conn.Create(&crmdomain.Project{ID: "project-b", ClientID: "client-b", Name: "Evento"}).Error)

	svc := New(Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		CRM:   crmrepository.Provide(),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func draft(records ...map[string]any) map[string]any {
	items := make([]any, 0, len(records))
	for _, r := range records {
		items = append(items, r)
	}
	return map[string]any{
		"draft": map[string]any{
			"model":       "gemini-2.5-pro",
			"generatedAt": "2025-03-01T08:59:00Z",
			"summary":     "2 documenti",
			"warnings":    []any{},
			"records":     items,
		},
	}
}

func paymentRecord() map[string]any {
	return map[string]any{
		"id":              "r-pay",
		"resource":        "payments",
		"clientId":        "client-b",
		"projectId":       "project-b",
		"amount":          1200.0,
		"documentDate":    "2025-02-20",
		"dueDate":         "2025-03-20",
		"paymentStatus":   "in_attesa",
		"paymentType":     "saldo",
		"invoiceRef":      "FT-2025-7",
		"sourceFileNames": []any{"fattura.pdf"},
	}
}

func expenseRecord() map[string]any {
	return map[string]any{
		"id":               "r-exp",
		"resource":         "expenses",
		"amount":           "89,90",
		"documentDate":     "2025-02-18",
		"expenseType":      "noleggio",
		"counterpartyName": "Noleggi Srl",
		"invoiceRef":       "N-33",
	}
}

func TestConfirmCreatesRecords(t *testing.T) {
	svc, conn := newService(t, "import_confirm_ok")

	res, err := svc.Confirm(context.Background(), draft(paymentRecord(), expenseRecord()))
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, domain.ResourcePayments, res.Created[0].Resource)
	assert.Equal(t, "FT-2025-7", *res.Created[0].InvoiceRef)
	assert.Equal(t, 1200.0, *res.Created[0].Amount)
	assert.Equal(t, domain.ResourceExpenses, res.Created[1].Resource)

	var payment crmdomain.Payment
	require.NoError(t, conn.First(&payment, "id = ?", res.Created[0].ID).Error)
	require.NotNil(t, payment.PaymentDate)
	assert.Equal(t, "2025-03-20", payment.PaymentDate.UTC().Format("2006-01-02"))
	assert.Equal(t, "bonifico", *payment.PaymentMethod)
	assert.True(t, strings.Contains(*payment.Notes, "File sorgente: fattura.pdf"))
	assert.True(t, strings.HasSuffix(*payment.Notes, "Registrato da import fatture AI"))

	var expense crmdomain.Expense
	require.NoError(t, conn.First(&expense, "id = ?", res.Created[1].ID).Error)
	assert.Equal(t, 89.9, *expense.Amount)
	assert.Equal(t, "Noleggi Srl", *expense.Description)
}

func TestConfirmRejectsDuplicates(t *testing.T) {
	svc, conn := newService(t, "import_confirm_dup")

	_, err := svc.Confirm(context.Background(), draft(paymentRecord()))
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), draft(expenseRecord(), paymentRecord()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	var confirmErr *domain.ConfirmError
	require.True(t, errors.As(err, &confirmErr))
	assert.Equal(t, "r-pay", confirmErr.RecordID)
	assert.Contains(t, confirmErr.Message, "FT-2025-7")

	var expenses int64
	require.NoError(t, conn.Model(&crmdomain.Expense{}).Count(&expenses).Error)
	assert.Zero(t, expenses, "expense of the failed batch must be rolled back")
}

func TestConfirmFailsFastOnInvalidRecord(t *testing.T) {
	svc, conn := newService(t, "import_confirm_invalid")

	bad := paymentRecord()
	bad["clientId"] = "client-a"

	_, err := svc.Confirm(context.Background(), draft(expenseRecord(), bad))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotConfirmable))

	var confirmErr *domain.ConfirmError
	require.True(t, errors.As(err, &confirmErr))
	assert.Equal(t, []string{"cliente/progetto coerenti"}, confirmErr.Missing)

	var expenses int64
	require.NoError(t, conn.Model(&crmdomain.Expense{}).Count(&expenses).Error)
	assert.Zero(t, expenses)
}

func TestConfirmRefusesAmbiguousAmount(t *testing.T) {
	svc, conn := newService(t, "import_confirm_ambiguous_amount")

	for _, amount := range []string{"1.234", "1,234,567", "1.5,30"} {
		rec := expenseRecord()
		rec["amount"] = amount

		_, err := svc.Confirm(context.Background(), draft(rec))
		require.Error(t, err, "amount %q", amount)
		assert.True(t, errors.Is(err, domain.ErrNotConfirmable), "amount %q", amount)

		var confirmErr *domain.ConfirmError
		require.True(t, errors.As(err, &confirmErr))
		assert.Equal(t, []string{"importo valido"}, confirmErr.Missing)
	}

	var expenses int64
	require.NoError(t, conn.Model(&crmdomain.Expense{}).Count(&expenses).Error)
	assert.Zero(t, expenses)
}

func TestConfirmReadsEnglishGroupedAmount(t *testing.T) {
	svc, conn := newService(t, "import_confirm_english_amount")

	rec := expenseRecord()
	rec["amount"] = "1,234.50"

	res, err := svc.Confirm(context.Background(), draft(rec))
	require.NoError(t, err)
	require.Len(t, res.Created, 1)

	var expense crmdomain.Expense
	require.NoError(t, conn.First(&expense, "id = ?", res.Created[0].ID).Error)
	assert.Equal(t, 1234.5, *expense.Amount)
}

func TestConfirmRejectsDuplicateWithinSameDraft(t *testing.T) {
	svc, conn := newService(t, "import_confirm_dup_same_draft")

	second := paymentRecord()
	second["id"] = "r-pay-2"

	_, err := svc.Confirm(context.Background(), draft(paymentRecord(), second))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	var confirmErr *domain.ConfirmError
	require.True(t, errors.As(err, &confirmErr))
	assert.Equal(t, "r-pay-2", confirmErr.RecordID)

	var payments int64
	require.NoError(t, conn.Model(&crmdomain.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments, "first payment of the failed batch must be rolled back")
}

func TestConfirmRejectsBadPayload(t *testing.T) {
	svc, _ := newService(t, "import_confirm_payload")

	_, err := svc.Confirm(context.Background(), map[string]any{"draft": map[string]any{"records": []any{}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))
	assert.Equal(t, domain.MessageNoRecords, err.Error())
}

func TestValidateReportsPerRecord(t *testing.T) {
	svc, conn := newService(t, "import_validate")

	bad := expenseRecord()
	delete(bad, "documentDate")

	res, err := svc.Validate(context.Background(), draft(paymentRecord(), bad))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.True(t, res.Records[0].Confirmable)
	require.NotNil(t, res.Records[0].PaymentDate)
	assert.Equal(t, "2025-03-20", *res.Records[0].PaymentDate)

	assert.False(t, res.Records[1].Confirmable)
	assert.Equal(t, []string{"data documento"}, res.Records[1].Missing)
	assert.Nil(t, res.Records[1].PaymentDate)

	var payments int64
	require.NoError(t, conn.Model(&crmdomain.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments)
}
