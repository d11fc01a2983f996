// Package template builds quote status emails. Everything here is pure: the
// same input always yields the same subject, HTML and text.
package template

import (
	"strings"

	"github.com/gosimple/slug"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/internal/registry"
)

const templateIDPrefix = "quote-status-"

type policy struct {
	status crmdomain.QuoteStatus
	send   domain.SendPolicy
	fields []string
}

var (
	contactFields = []string{domain.FieldClientName, domain.FieldClientEmail}

	// Lifecycle order. Labels come from the semantic registry at lookup.
	catalogue = []policy{
		{crmdomain.QuoteStatusPrimoContatto, domain.SendPolicyNever, []string{domain.FieldClientName}},
		{crmdomain.QuoteStatusPreventivoInviato, domain.SendPolicyRecommended, withContact(domain.FieldQuoteDescription)},
		{crmdomain.QuoteStatusInTrattativa, domain.SendPolicyManual, withContact()},
		{crmdomain.QuoteStatusAccettato, domain.SendPolicyRecommended, withContact(domain.FieldQuoteAmount)},
		{crmdomain.QuoteStatusAccontoRicevuto, domain.SendPolicyRecommended, withContact(domain.FieldAmountPaid)},
		{crmdomain.QuoteStatusInLavorazione, domain.SendPolicyManual, withContact()},
		{crmdomain.QuoteStatusCompletato, domain.SendPolicyRecommended, withContact()},
		{crmdomain.QuoteStatusSaldato, domain.SendPolicyRecommended, withContact(domain.FieldAmountPaid)},
		{crmdomain.QuoteStatusRifiutato, domain.SendPolicyManual, withContact()},
		{crmdomain.QuoteStatusPerso, domain.SendPolicyNever, []string{domain.FieldClientName}},
	}
)

func withContact(extra ...string) []string {
	return append(append([]string(nil), contactFields...), extra...)
}

func (p policy) definition(semantic registry.SemanticRegistry) domain.TemplateDefinition {
	return domain.TemplateDefinition{
		ID:             templateIDPrefix + string(p.status),
		Status:         string(p.status),
		Label:          semantic.QuoteStatusLabel(string(p.status)),
		SendPolicy:     p.send,
		RequiredFields: append([]string(nil), p.fields...),
	}
}

// Definitions returns the catalogue of known statuses in lifecycle order,
// labelled through semantic.
func Definitions(semantic registry.SemanticRegistry) []domain.TemplateDefinition {
	out := make([]domain.TemplateDefinition, 0, len(catalogue))
	for _, p := range catalogue {
		out = append(out, p.definition(semantic))
	}
	return out
}

// DefinitionFor looks up status, synthesizing a manual definition for
// statuses outside the catalogue.
func DefinitionFor(semantic registry.SemanticRegistry, status string) domain.TemplateDefinition {
	status = strings.TrimSpace(status)
	for _, p := range catalogue {
		if string(p.status) == status {
			return p.definition(semantic)
		}
	}

	id := slug.Make(status)
	if id == "" {
		id = "sconosciuto"
	}
	return domain.TemplateDefinition{
		ID:             templateIDPrefix + id,
		Status:         status,
		Label:          semantic.QuoteStatusLabel(status),
		SendPolicy:     domain.SendPolicyManual,
		RequiredFields: withContact(),
	}
}
