package financial

import (
	"math"
	"testing"

	crm "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestCalculateServiceNetValue(t *testing.T) {
	svc := crm.Service{FeeShooting: f(500), FeeEditing: f(300), FeeOther: f(200), Discount: f(10)}
	assert.Equal(t, 900.0, CalculateServiceNetValue(svc))

	assert.Equal(t, 250.0, CalculateServiceNetValue(crm.Service{FeeShooting: f(250)}))
	assert.Equal(t, 0.0, CalculateServiceNetValue(crm.Service{FeeEditing: f(math.NaN())}))
}

func TestGetExpenseOperationalAmount(t *testing.T) {
	cases := []struct {
		name    string
		expense crm.Expense
		want    float64
	}{
		{"credit is negative", crm.Expense{ExpenseType: crm.ExpenseTypeCreditoRicevuto, Amount: f(80)}, -80},
		{"km uses distance and rate", crm.Expense{ExpenseType: crm.ExpenseTypeSpostamentoKm, Amount: f(999), KmDistance: f(120), KmRate: f(0.3)}, 36},
		{"km without rate", crm.Expense{ExpenseType: crm.ExpenseTypeSpostamentoKm, KmDistance: f(120)}, 0},
		{"markup applied", crm.Expense{ExpenseType: crm.ExpenseTypeNoleggio, Amount: f(100), MarkupPercent: f(10)}, 110},
		{"missing amount", crm.Expense{ExpenseType: crm.ExpenseTypeAltro}, 0},
		{"infinite amount", crm.Expense{ExpenseType: crm.ExpenseTypeAcquistoMateriale, Amount: f(math.Inf(1))}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetExpenseOperationalAmount(tc.expense))
		})
	}
}

func TestCalculateKmReimbursement(t *testing.T) {
	assert.Equal(t, 42.0, CalculateKmReimbursement(KmInput{KmDistance: f(100), DefaultKmRate: f(0.42)}))
	assert.Equal(t, 50.0, CalculateKmReimbursement(KmInput{KmDistance: f(100), KmRate: f(0.5), DefaultKmRate: f(0.42)}))
	assert.Equal(t, 0.0, CalculateKmReimbursement(KmInput{KmDistance: f(math.NaN()), KmRate: f(1)}))
	assert.Equal(t, 0.0, CalculateKmReimbursement(KmInput{}))
}

func TestBuildQuotePaymentsSummary(t *testing.T) {
	payments := []crm.Payment{
		{Amount: 200, PaymentType: crm.PaymentTypeAcconto, Status: crm.PaymentStatusRicevuto},
		{Amount: 300, PaymentType: crm.PaymentTypeSaldo, Status: crm.PaymentStatusInAttesa},
		{Amount: 100, PaymentType: crm.PaymentTypeParziale, Status: crm.PaymentStatusScaduto},
		{Amount: 50, PaymentType: crm.PaymentTypeRimborso, Status: crm.PaymentStatusRicevuto},
	}

	got := BuildQuotePaymentsSummary(1000, payments)

	assert.Equal(t, QuotePaymentsSummary{
		PaymentsCount:   4,
		ReceivedCount:   2,
		PendingCount:    1,
		OverdueCount:    1,
		ReceivedTotal:   150,
		PendingTotal:    300,
		OverdueTotal:    100,
		LinkedTotal:     550,
		RemainingAmount: 450,
	}, got)
}

func TestBuildQuotePaymentsSummaryKeepsOverCoverage(t *testing.T) {
	payments := []crm.Payment{
		{Amount: 700, PaymentType: crm.PaymentTypeSaldo, Status: crm.PaymentStatusRicevuto},
		{Amount: 500, PaymentType: crm.PaymentTypeSaldo, Status: "annullato"},
	}

	got := BuildQuotePaymentsSummary(1000, payments)

	assert.Equal(t, 1200.0, got.LinkedTotal)
	assert.Equal(t, -200.0, got.RemainingAmount)
	assert.Equal(t, 700.0, got.ReceivedTotal)
	assert.Equal(t, 1, got.ReceivedCount)
	assert.Equal(t, 2, got.PaymentsCount)
}

func TestBuildProjectFinancialSummaries(t *testing.T) {
	in := ProjectInput{
		Projects: []crm.Project{{ID: "p-1"}, {ID: "p-2"}},
		Services: []crm.Service{
			{ProjectID: "p-1", FeeShooting: f(1000), Discount: f(10)},
			{ProjectID: "p-1", FeeEditing: f(100)},
			{ProjectID: "ghost", FeeShooting: f(5000)},
		},
		Expenses: []crm.Expense{
			{ProjectID: s("p-1"), ExpenseType: crm.ExpenseTypeSpostamentoKm, KmDistance: f(100), KmRate: f(0.5)},
			{ProjectID: s("p-1"), ExpenseType: crm.ExpenseTypeCreditoRicevuto, Amount: f(20)},
			{ExpenseType: crm.ExpenseTypeAltro, Amount: f(99)},
		},
		Payments: []crm.Payment{
			{ProjectID: s("p-1"), Amount: 400, PaymentType: crm.PaymentTypeAcconto, Status: crm.PaymentStatusRicevuto},
			{ProjectID: s("p-1"), Amount: 300, PaymentType: crm.PaymentTypeSaldo, Status: crm.PaymentStatusInAttesa},
			{ProjectID: s("p-1"), Amount: 50, PaymentType: crm.PaymentTypeRimborso, Status: crm.PaymentStatusRicevuto},
			{ProjectID: s("ghost"), Amount: 10, PaymentType: crm.PaymentTypeSaldo, Status: crm.PaymentStatusRicevuto},
		},
	}

	got := BuildProjectFinancialSummaries(in)

	require.Len(t, got, 2)
	p1 := got["p-1"]
	assert.Equal(t, 2, p1.TotalServices)
	assert.Equal(t, 1000.0, p1.TotalFees)
	assert.Equal(t, 30.0, p1.TotalExpenses)
	assert.Equal(t, 350.0, p1.TotalPaid)
	assert.Equal(t, 680.0, p1.BalanceDue)
	assert.Equal(t, p1.TotalFees+p1.TotalExpenses-p1.TotalPaid, p1.BalanceDue)

	assert.Equal(t, ProjectFinancialSummary{ProjectID: "p-2"}, got["p-2"])
}
