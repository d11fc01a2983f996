package template

import (
	"strings"

	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
)

// NonTaxableBlockReason is reported whenever the quote includes services
// marked as not taxable.
const NonTaxableBlockReason = "Invio automatico bloccato: il lavoro include servizi non imponibili. Verifica i contenuti e invia manualmente."

// BuildTemplate renders the email for in.Status and decides whether it may
// be sent manually or automatically.
func BuildTemplate(in domain.TemplateInput) (domain.BuiltTemplate, error) {
	def := DefinitionFor(in.Semantic, in.Status)
	missing := MissingFields(def, in.Context)

	var blockReason *string
	if in.Context.HasNonTaxableServices {
		reason := NonTaxableBlockReason
		blockReason = &reason
	}

	model := buildModel(def, in.Context, in.CustomMessage)
	html, err := renderHTML(model)
	if err != nil {
		return domain.BuiltTemplate{}, err
	}

	return domain.BuiltTemplate{
		TemplateID:               def.ID,
		Status:                   def.Status,
		StatusLabel:              def.Label,
		SendPolicy:               def.SendPolicy,
		CanSend:                  def.SendPolicy != domain.SendPolicyNever && len(missing) == 0,
		AutomaticSendAllowed:     def.SendPolicy == domain.SendPolicyRecommended && len(missing) == 0 && blockReason == nil,
		AutomaticSendBlockReason: blockReason,
		MissingFields:            missing,
		Subject:                  model.Subject,
		PreviewText:              model.PreviewText,
		HTML:                     html,
		Text:                     renderText(model),
	}, nil
}

// MissingFields lists the required fields of def that c cannot fill.
func MissingFields(def domain.TemplateDefinition, c domain.EmailContext) []string {
	missing := []string{}
	for _, field := range def.RequiredFields {
		if !hasField(field, c) {
			missing = append(missing, field)
		}
	}
	return missing
}

func hasField(field string, c domain.EmailContext) bool {
	switch field {
	case domain.FieldClientName:
		return strings.TrimSpace(c.ClientName) != ""
	case domain.FieldClientEmail:
		return strings.Contains(c.ClientEmail, "@")
	case domain.FieldQuoteDescription:
		return strings.TrimSpace(c.QuoteDescription) != ""
	case domain.FieldQuoteAmount:
		return c.QuoteAmount > 0
	case domain.FieldAmountPaid:
		return c.AmountPaid != nil && *c.AmountPaid > 0
	default:
		return false
	}
}
