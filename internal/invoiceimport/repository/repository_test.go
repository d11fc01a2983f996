package repository

import (
	"context"
	"testing"
	"time"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T, name string) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest(name, &crmdomain.Client{}, &crmdomain.Project{}, &crmdomain.Payment{}, &crmdomain.Expense{})
	require.NoError(t, err)
	require.NoError(t, conn.Create(&crmdomain.Client{ID: "c-1", Name: "Uno"}).Error)
	require.NoError(t, conn.Create(&crmdomain.Project{ID: "p-1", ClientID: "c-1", Name: "Matrimonio"}).Error)
	return conn
}

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	t = t.UTC()
	return &t
}

func TestFindDuplicatePayment(t *testing.T) {
	conn := setup(t, "import_repo_payment")
	r := Provide()
	ctx := context.Background()
	ref := "FT-1"

	stored := crmdomain.Payment{
		ID:          "pay-1",
		ClientID:    "c-1",
		PaymentDate: day("2025-01-10"),
		PaymentType: crmdomain.PaymentTypeSaldo,
		Amount:      500,
		Status:      crmdomain.PaymentStatusRicevuto,
		InvoiceRef:  &ref,
	}
	require.NoError(t, r.InsertPayment(ctx, conn, &stored))

	candidate := stored
	candidate.ID = ""
	found, err := r.FindDuplicatePayment(ctx, conn, candidate)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "pay-1", found.ID)

	project := "p-1"
	candidate.ProjectID = &project
	found, err = r.FindDuplicatePayment(ctx, conn, candidate)
	require.NoError(t, err)
	assert.Nil(t, found)

	candidate.ProjectID = nil
	candidate.InvoiceRef = nil
	found, err = r.FindDuplicatePayment(ctx, conn, candidate)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindDuplicateExpense(t *testing.T) {
	conn := setup(t, "import_repo_expense")
	r := Provide()
	ctx := context.Background()
	amount := 42.5

	stored := crmdomain.Expense{
		ID:          "exp-1",
		ExpenseDate: day("2025-02-01"),
		ExpenseType: crmdomain.ExpenseTypeNoleggio,
		Amount:      &amount,
	}
	require.NoError(t, r.InsertExpense(ctx, conn, &stored))

	candidate := stored
	candidate.ID = ""
	found, err := r.FindDuplicateExpense(ctx, conn, candidate)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "exp-1", found.ID)

	other := 42.0
	candidate.Amount = &other
	found, err = r.FindDuplicateExpense(ctx, conn, candidate)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestInsertDuplicateKey(t *testing.T) {
	conn := setup(t, "import_repo_pk")
	r := Provide()
	ctx := context.Background()

	amount := 10.0
	require.NoError(t, r.InsertExpense(ctx, conn, &crmdomain.Expense{ID: "exp-1", ExpenseType: crmdomain.ExpenseTypeAltro, Amount: &amount}))
	err := r.InsertExpense(ctx, conn, &crmdomain.Expense{ID: "exp-1", ExpenseType: crmdomain.ExpenseTypeAltro, Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
