package domain

import (
	"context"
	"strings"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
)

type Resource string

const (
	ResourcePayments Resource = "payments"
	ResourceExpenses Resource = "expenses"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type DocumentType string

const (
	DocumentCustomerInvoice DocumentType = "customer_invoice"
	DocumentSupplierInvoice DocumentType = "supplier_invoice"
	DocumentReceipt         DocumentType = "receipt"
	DocumentUnknown         DocumentType = "unknown"
)

func ParseResource(v any) Resource {
	return parseEnum(v, ResourceExpenses, ResourcePayments, ResourceExpenses)
}

func ParseConfidence(v any) Confidence {
	return parseEnum(v, ConfidenceMedium, ConfidenceHigh, ConfidenceMedium, ConfidenceLow)
}

func ParseDocumentType(v any) DocumentType {
	return parseEnum(v, DocumentUnknown,
		DocumentCustomerInvoice, DocumentSupplierInvoice, DocumentReceipt, DocumentUnknown)
}

func ParsePaymentType(v any) crmdomain.PaymentType {
	return parseEnum(v, crmdomain.PaymentTypeSaldo,
		crmdomain.PaymentTypeAcconto,
		crmdomain.PaymentTypeSaldo,
		crmdomain.PaymentTypeParziale,
		crmdomain.PaymentTypeRimborsoSpese,
		crmdomain.PaymentTypeRimborso,
	)
}

func ParsePaymentMethod(v any) crmdomain.PaymentMethod {
	return parseEnum(v, crmdomain.PaymentMethodBonifico,
		crmdomain.PaymentMethodBonifico,
		crmdomain.PaymentMethodContanti,
		crmdomain.PaymentMethodPaypal,
		crmdomain.PaymentMethodCarta,
		crmdomain.PaymentMethodRiba,
		crmdomain.PaymentMethodAltro,
	)
}

func ParsePaymentStatus(v any) crmdomain.PaymentStatus {
	return parseEnum(v, crmdomain.PaymentStatusInAttesa,
		crmdomain.PaymentStatusRicevuto,
		crmdomain.PaymentStatusInAttesa,
		crmdomain.PaymentStatusScaduto,
	)
}

func ParseExpenseType(v any) crmdomain.ExpenseType {
	return parseEnum(v, crmdomain.ExpenseTypeAcquistoMateriale,
		crmdomain.ExpenseTypeSpostamentoKm,
		crmdomain.ExpenseTypeAcquistoMateriale,
		crmdomain.ExpenseTypeNoleggio,
		crmdomain.ExpenseTypeCreditoRicevuto,
		crmdomain.ExpenseTypeAltro,
	)
}

func parseEnum[T ~string](v any, def T, allowed ...T) T {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	for _, candidate := range allowed {
		if string(candidate) == s {
			return candidate
		}
	}
	return def
}

// Record is one normalized draft row ready for confirmation. Dates are
// calendar days formatted as YYYY-MM-DD.
type Record struct {
	ID                   string                  `json:"id"`
	SourceFileNames      []string                `json:"sourceFileNames"`
	Resource             Resource                `json:"resource"`
	Confidence           Confidence              `json:"confidence"`
	DocumentType         DocumentType            `json:"documentType"`
	DocumentDate         *string                 `json:"documentDate"`
	DueDate              *string                 `json:"dueDate"`
	Amount               *float64                `json:"amount"`
	Description          *string                 `json:"description"`
	InvoiceRef           *string                 `json:"invoiceRef"`
	Notes                *string                 `json:"notes"`
	ClientID             *string                 `json:"clientId"`
	ProjectID            *string                 `json:"projectId"`
	PaymentType          crmdomain.PaymentType   `json:"paymentType"`
	PaymentMethod        crmdomain.PaymentMethod `json:"paymentMethod"`
	PaymentStatus        crmdomain.PaymentStatus `json:"paymentStatus"`
	ExpenseType          crmdomain.ExpenseType   `json:"expenseType"`
	CounterpartyName     *string                 `json:"counterpartyName"`
	BillingName          *string                 `json:"billingName"`
	VATNumber            *string                 `json:"vatNumber"`
	FiscalCode           *string                 `json:"fiscalCode"`
	BillingAddressStreet *string                 `json:"billingAddressStreet"`
	BillingAddressNumber *string                 `json:"billingAddressNumber"`
	BillingPostalCode    *string                 `json:"billingPostalCode"`
	BillingCity          *string                 `json:"billingCity"`
	BillingProvince      *string                 `json:"billingProvince"`
	BillingCountry       *string                 `json:"billingCountry"`
	BillingSDICode       *string                 `json:"billingSdiCode"`
	BillingPEC           *string                 `json:"billingPec"`
}

type Draft struct {
	Model       string   `json:"model"`
	GeneratedAt string   `json:"generatedAt"`
	Summary     string   `json:"summary"`
	Warnings    []string `json:"warnings"`
	Records     []Record `json:"records"`
}

type Payload struct {
	Draft Draft `json:"draft"`
}

type CreatedRecord struct {
	Resource   Resource `json:"resource"`
	ID         string   `json:"id"`
	InvoiceRef *string  `json:"invoiceRef,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
}

type ConfirmResult struct {
	Created []CreatedRecord `json:"created"`
}

// RecordReport is the dry-run outcome for one draft record.
type RecordReport struct {
	ID          string   `json:"id"`
	Resource    Resource `json:"resource"`
	Missing     []string `json:"missing"`
	Confirmable bool     `json:"confirmable"`
	PaymentDate *string  `json:"paymentDate,omitempty"`
}

type ValidateResult struct {
	Records []RecordReport `json:"records"`
}

type Service interface {
	Validate(ctx context.Context, raw any) (ValidateResult, error)
	Confirm(ctx context.Context, raw any) (ConfirmResult, error)
}
