// Package financial derives monetary rollups from CRM records. Every
// function is pure and tolerant: missing or non-finite inputs count as zero
// and nothing here returns an error.
package financial

import (
	crm "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/pkg/numeric"
)

// CalculateServiceNetValue returns the service fees after the percentage
// discount.
func CalculateServiceNetValue(s crm.Service) float64 {
	gross := numeric.Sum(numeric.Float(s.FeeShooting), numeric.Float(s.FeeEditing), numeric.Float(s.FeeOther))
	return numeric.Percent(gross, -numeric.Float(s.Discount))
}

// GetExpenseOperationalAmount returns the amount an expense weighs on a
// project: credits are negative, mileage is distance times rate and
// everything else carries its markup.
func GetExpenseOperationalAmount(e crm.Expense) float64 {
	switch e.ExpenseType {
	case crm.ExpenseTypeCreditoRicevuto:
		return -numeric.Float(e.Amount)
	case crm.ExpenseTypeSpostamentoKm:
		return CalculateKmReimbursement(KmInput{KmDistance: e.KmDistance, KmRate: e.KmRate})
	default:
		return numeric.Percent(numeric.Float(e.Amount), numeric.Float(e.MarkupPercent))
	}
}

type KmInput struct {
	KmDistance    *float64
	KmRate        *float64
	DefaultKmRate *float64
}

// CalculateKmReimbursement returns distance times rate, using DefaultKmRate
// when KmRate is unset.
func CalculateKmReimbursement(in KmInput) float64 {
	rate := in.KmRate
	if rate == nil {
		rate = in.DefaultKmRate
	}
	return numeric.Mul(numeric.Float(in.KmDistance), numeric.Float(rate))
}

type QuotePaymentsSummary struct {
	PaymentsCount   int     `json:"paymentsCount"`
	ReceivedCount   int     `json:"receivedCount"`
	PendingCount    int     `json:"pendingCount"`
	OverdueCount    int     `json:"overdueCount"`
	ReceivedTotal   float64 `json:"receivedTotal"`
	PendingTotal    float64 `json:"pendingTotal"`
	OverdueTotal    float64 `json:"overdueTotal"`
	LinkedTotal     float64 `json:"linkedTotal"`
	RemainingAmount float64 `json:"remainingAmount"`
}

// BuildQuotePaymentsSummary buckets the payments linked to a quote by
// status. Amounts are signed. RemainingAmount is not clamped and goes
// negative when payments exceed the quote.
func BuildQuotePaymentsSummary(quoteAmount float64, payments []crm.Payment) QuotePaymentsSummary {
	var s QuotePaymentsSummary
	for _, p := range payments {
		amount := numeric.Finite(p.SignedAmount())
		s.PaymentsCount++
		s.LinkedTotal = numeric.Sum(s.LinkedTotal, amount)

		switch p.Status {
		case crm.PaymentStatusRicevuto:
			s.ReceivedCount++
			s.ReceivedTotal = numeric.Sum(s.ReceivedTotal, amount)
		case crm.PaymentStatusInAttesa:
			s.PendingCount++
			s.PendingTotal = numeric.Sum(s.PendingTotal, amount)
		case crm.PaymentStatusScaduto:
			s.OverdueCount++
			s.OverdueTotal = numeric.Sum(s.OverdueTotal, amount)
		}
	}
	s.RemainingAmount = numeric.Sub(quoteAmount, s.LinkedTotal)
	return s
}

type ProjectFinancialSummary struct {
	ProjectID     string  `json:"projectId"`
	TotalServices int     `json:"totalServices"`
	TotalFees     float64 `json:"totalFees"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalPaid     float64 `json:"totalPaid"`
	BalanceDue    float64 `json:"balanceDue"`
}

type ProjectInput struct {
	Projects []crm.Project
	Services []crm.Service
	Payments []crm.Payment
	Expenses []crm.Expense
}

// BuildProjectFinancialSummaries returns one summary per project keyed by
// project id. Only received payments count towards TotalPaid, with refunds
// subtracted. Records pointing at unknown projects are ignored.
func BuildProjectFinancialSummaries(in ProjectInput) map[string]ProjectFinancialSummary {
	out := make(map[string]ProjectFinancialSummary, len(in.Projects))
	for _, p := range in.Projects {
		out[p.ID] = ProjectFinancialSummary{ProjectID: p.ID}
	}

	for _, s := range in.Services {
		sum, ok := out[s.ProjectID]
		if !ok {
			continue
		}
		sum.TotalServices++
		sum.TotalFees = numeric.Sum(sum.TotalFees, CalculateServiceNetValue(s))
		out[s.ProjectID] = sum
	}

	for _, e := range in.Expenses {
		if e.ProjectID == nil {
			continue
		}
		sum, ok := out[*e.ProjectID]
		if !ok {
			continue
		}
		sum.TotalExpenses = numeric.Sum(sum.TotalExpenses, GetExpenseOperationalAmount(e))
		out[*e.ProjectID] = sum
	}

	for _, p := range in.Payments {
		if p.ProjectID == nil || p.Status != crm.PaymentStatusRicevuto {
			continue
		}
		sum, ok := out[*p.ProjectID]
		if !ok {
			continue
		}
		sum.TotalPaid = numeric.Sum(sum.TotalPaid, p.SignedAmount())
		out[*p.ProjectID] = sum
	}

	for id, sum := range out {
		sum.BalanceDue = numeric.Sub(numeric.Sum(sum.TotalFees, sum.TotalExpenses), sum.TotalPaid)
		out[id] = sum
	}
	return out
}
