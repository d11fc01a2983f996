package domain

import (
	"context"

	"github.com/smallbiznis/gestionale/internal/financial"
	"github.com/smallbiznis/gestionale/internal/registry"
)

const Scope = "crm_read_snapshot"

// UnifiedCrmReadContext is the read-only CRM payload handed to the assistant
// prompt and to the dashboard. Field names are part of the prompt contract.
type UnifiedCrmReadContext struct {
	Meta       Meta       `json:"meta"`
	Registries Registries `json:"registries"`
	Snapshot   Snapshot   `json:"snapshot"`
	Caveats    []string   `json:"caveats"`
}

type Meta struct {
	GeneratedAt      string `json:"generatedAt"`
	GeneratedAtLabel string `json:"generatedAtLabel"`
	BusinessTimezone string `json:"businessTimezone"`
	RoutePrefix      string `json:"routePrefix"`
	Scope            string `json:"scope"`
}

type Registries struct {
	Semantic   registry.SemanticRegistry   `json:"semantic"`
	Capability registry.CapabilityRegistry `json:"capability"`
}

type Counts struct {
	Clients         int `json:"clients"`
	Contacts        int `json:"contacts"`
	Quotes          int `json:"quotes"`
	OpenQuotes      int `json:"openQuotes"`
	Projects        int `json:"projects"`
	ActiveProjects  int `json:"activeProjects"`
	Services        int `json:"services"`
	Payments        int `json:"payments"`
	PendingPayments int `json:"pendingPayments"`
	Expenses        int `json:"expenses"`
}

type Totals struct {
	OpenQuotesAmount      float64 `json:"openQuotesAmount"`
	PendingPaymentsAmount float64 `json:"pendingPaymentsAmount"`
	ExpensesAmount        float64 `json:"expensesAmount"`
}

type Snapshot struct {
	Counts          Counts         `json:"counts"`
	Totals          Totals         `json:"totals"`
	RecentClients   []ClientEntry  `json:"recentClients"`
	RecentContacts  []ContactEntry `json:"recentContacts"`
	OpenQuotes      []QuoteEntry   `json:"openQuotes"`
	ActiveProjects  []ProjectEntry `json:"activeProjects"`
	PendingPayments []PaymentEntry `json:"pendingPayments"`
	RecentExpenses  []ExpenseEntry `json:"recentExpenses"`
}

type ContactRef struct {
	ContactID   string  `json:"contactId"`
	DisplayName string  `json:"displayName"`
	Title       *string `json:"title"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	IsPrimary   bool    `json:"isPrimary,omitempty"`
}

type ProjectRef struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

type ClientEntry struct {
	ClientID       string       `json:"clientId"`
	ClientName     string       `json:"clientName"`
	ClientType     *string      `json:"clientType"`
	Email          *string      `json:"email"`
	Phone          *string      `json:"phone"`
	BillingName    *string      `json:"billingName"`
	VATNumber      *string      `json:"vatNumber"`
	FiscalCode     *string      `json:"fiscalCode"`
	BillingAddress *string      `json:"billingAddress"`
	BillingSDICode *string      `json:"billingSdiCode"`
	BillingPEC     *string      `json:"billingPec"`
	CreatedAt      *string      `json:"createdAt"`
	Contacts       []ContactRef `json:"contacts"`
	ActiveProjects []ProjectRef `json:"activeProjects"`
}

type ContactEntry struct {
	ContactID      string       `json:"contactId"`
	DisplayName    string       `json:"displayName"`
	Title          *string      `json:"title"`
	Email          *string      `json:"email"`
	Phone          *string      `json:"phone"`
	ClientID       *string      `json:"clientId"`
	ClientName     *string      `json:"clientName"`
	UpdatedAt      *string      `json:"updatedAt"`
	LinkedProjects []ProjectRef `json:"linkedProjects"`
}

type QuoteEntry struct {
	QuoteID     string                         `json:"quoteId"`
	ClientID    string                         `json:"clientId"`
	ClientName  *string                        `json:"clientName"`
	ProjectID   *string                        `json:"projectId"`
	ProjectName *string                        `json:"projectName"`
	Description *string                        `json:"description"`
	ServiceType *string                        `json:"serviceType"`
	Status      string                         `json:"status"`
	StatusLabel string                         `json:"statusLabel"`
	Amount      float64                        `json:"amount"`
	CreatedAt   *string                        `json:"createdAt"`
	Payments    financial.QuotePaymentsSummary `json:"payments"`
}

type ProjectEntry struct {
	ProjectID     string                            `json:"projectId"`
	ProjectName   string                            `json:"projectName"`
	ClientID      string                            `json:"clientId"`
	ClientName    *string                           `json:"clientName"`
	Category      string                            `json:"category"`
	CategoryLabel string                            `json:"categoryLabel"`
	Status        string                            `json:"status"`
	StatusLabel   string                            `json:"statusLabel"`
	StartDate     *string                           `json:"startDate"`
	EndDate       *string                           `json:"endDate"`
	Financials    financial.ProjectFinancialSummary `json:"financials"`
	Contacts      []ContactRef                      `json:"contacts"`
}

type PaymentEntry struct {
	PaymentID        string  `json:"paymentId"`
	ClientID         string  `json:"clientId"`
	ClientName       *string `json:"clientName"`
	ProjectID        *string `json:"projectId"`
	ProjectName      *string `json:"projectName"`
	QuoteID          *string `json:"quoteId"`
	PaymentType      string  `json:"paymentType"`
	PaymentTypeLabel string  `json:"paymentTypeLabel"`
	Status           string  `json:"status"`
	StatusLabel      string  `json:"statusLabel"`
	Amount           float64 `json:"amount"`
	PaymentDate      *string `json:"paymentDate"`
	InvoiceRef       *string `json:"invoiceRef"`
}

type ExpenseEntry struct {
	ExpenseID        string  `json:"expenseId"`
	ClientID         *string `json:"clientId"`
	ClientName       *string `json:"clientName"`
	ProjectID        *string `json:"projectId"`
	ProjectName      *string `json:"projectName"`
	ExpenseType      string  `json:"expenseType"`
	ExpenseTypeLabel string  `json:"expenseTypeLabel"`
	Amount           float64 `json:"amount"`
	Description      *string `json:"description"`
	ExpenseDate      *string `json:"expenseDate"`
	InvoiceRef       *string `json:"invoiceRef"`
}

type Service interface {
	Get(ctx context.Context) (UnifiedCrmReadContext, error)
}
