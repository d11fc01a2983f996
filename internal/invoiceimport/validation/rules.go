package validation

import (
	"slices"
	"strings"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
)

const (
	FieldAmount        = "importo valido"
	FieldDocumentDate  = "data documento"
	FieldClient        = "cliente"
	FieldPaymentType   = "tipo pagamento"
	FieldPaymentStatus = "stato pagamento"
	FieldExpenseType   = "tipo spesa"
	FieldValidClient   = "cliente valido"
	FieldValidProject  = "progetto valido"
	FieldClientProject = "cliente/progetto coerenti"
)

// ValidationErrors lists the missing or inconsistent concepts that keep rec
// from being confirmed. With a nil workspace only the record itself is
// checked.
func ValidationErrors(rec domain.Record, ws *crmdomain.Workspace) []string {
	missing := []string{}

	if rec.Amount == nil || *rec.Amount <= 0 {
		missing = append(missing, FieldAmount)
	}
	if rec.DocumentDate == nil {
		missing = append(missing, FieldDocumentDate)
	}

	switch rec.Resource {
	case domain.ResourcePayments:
		if rec.ClientID == nil {
			missing = append(missing, FieldClient)
		}
		if domain.ParsePaymentType(string(rec.PaymentType)) != rec.PaymentType {
			missing = append(missing, FieldPaymentType)
		}
		if domain.ParsePaymentStatus(string(rec.PaymentStatus)) != rec.PaymentStatus {
			missing = append(missing, FieldPaymentStatus)
		}
	case domain.ResourceExpenses:
		if domain.ParseExpenseType(string(rec.ExpenseType)) != rec.ExpenseType {
			missing = append(missing, FieldExpenseType)
		}
	}

	if ws == nil {
		return missing
	}

	if rec.ClientID != nil && !slices.Contains(ws.ClientIDs, *rec.ClientID) {
		missing = append(missing, FieldValidClient)
	}
	if rec.ProjectID != nil {
		idx := slices.IndexFunc(ws.Projects, func(p crmdomain.WorkspaceProject) bool {
			return p.ID == *rec.ProjectID
		})
		switch {
		case idx < 0:
			missing = append(missing, FieldValidProject)
		case rec.ClientID != nil && ws.Projects[idx].ClientID != *rec.ClientID:
			missing = append(missing, FieldClientProject)
		}
	}
	return missing
}

// PaymentDate dates received payments by the document and pending ones by
// their due date.
func PaymentDate(rec domain.Record) *string {
	if rec.PaymentStatus == crmdomain.PaymentStatusRicevuto {
		return rec.DocumentDate
	}
	if rec.DueDate != nil {
		return rec.DueDate
	}
	return rec.DocumentDate
}

// AuditMarker closes the notes of every record created by the importer.
const AuditMarker = "Registrato da import fatture AI"

var (
	documentTypeLabels = map[domain.DocumentType]string{
		domain.DocumentCustomerInvoice: "Fattura cliente",
		domain.DocumentSupplierInvoice: "Fattura fornitore",
		domain.DocumentReceipt:         "Ricevuta",
		domain.DocumentUnknown:         "Non determinato",
	}
	confidenceLabels = map[domain.Confidence]string{
		domain.ConfidenceHigh:   "alta",
		domain.ConfidenceMedium: "media",
		domain.ConfidenceLow:    "bassa",
	}
)

// BuildNotes composes the persisted notes of an imported record.
func BuildNotes(rec domain.Record, model string) string {
	address := crmdomain.Client{
		BillingAddressStreet: rec.BillingAddressStreet,
		BillingAddressNumber: rec.BillingAddressNumber,
		BillingPostalCode:    rec.BillingPostalCode,
		BillingCity:          rec.BillingCity,
		BillingProvince:      rec.BillingProvince,
		BillingCountry:       rec.BillingCountry,
	}.BillingAddress()

	lines := []string{
		value(rec.Notes),
		labeled("Scadenza", value(rec.DueDate)),
		labeled("Intestatario fiscale", value(rec.BillingName)),
		labeled("P.IVA", value(rec.VATNumber)),
		labeled("CF", value(rec.FiscalCode)),
		labeled("Indirizzo fiscale", address),
		labeled("Codice SDI", value(rec.BillingSDICode)),
		labeled("PEC", value(rec.BillingPEC)),
		labeled("File sorgente", strings.Join(rec.SourceFileNames, ", ")),
		labeled("Tipo documento", documentTypeLabels[rec.DocumentType]),
		labeled("Confidenza AI", confidenceLabels[rec.Confidence]),
		labeled("Modello estrazione", strings.TrimSpace(model)),
		AuditMarker,
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func labeled(label, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return label + ": " + v
}

func value(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
