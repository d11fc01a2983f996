package template

import (
	"cmp"
	"slices"
	"strings"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/pkg/numeric"
)

// BuildContext derives the template context for a quote. Only received
// payments count as paid; refunds subtract.
func BuildContext(in domain.ContextInput) domain.EmailContext {
	c := domain.EmailContext{
		BusinessName: strings.TrimSpace(in.Profile.Name),
		Signature:    strings.TrimSpace(in.Profile.Signature),
		ReplyTo:      strings.TrimSpace(in.Profile.ReplyTo),
		Phone:        strings.TrimSpace(in.Profile.Phone),
		IBAN:         strings.TrimSpace(in.Profile.IBAN),
		PortalURL:    strings.TrimSpace(in.Profile.PortalURL),

		QuoteID:          in.Quote.ID,
		QuoteDescription: trim(in.Quote.Description),
		ServiceType:      trim(in.Quote.ServiceType),
		EventStart:       in.Quote.EventStart,
		EventEnd:         in.Quote.EventEnd,
		QuoteAmount:      numeric.Finite(in.Quote.Amount),
	}
	if c.Signature == "" {
		c.Signature = c.BusinessName
	}
	if in.Client != nil {
		c.ClientName = in.Client.DisplayName()
		c.ClientEmail = trim(in.Client.Email)
	}
	if in.Project != nil {
		c.ProjectName = strings.TrimSpace(in.Project.Name)
	}

	received := make([]crmdomain.Payment, 0, len(in.Payments))
	for _, p := range in.Payments {
		if p.Status == crmdomain.PaymentStatusRicevuto {
			received = append(received, p)
		}
	}
	if len(received) > 0 {
		amounts := make([]float64, 0, len(received))
		for _, p := range received {
			amounts = append(amounts, p.SignedAmount())
		}
		paid := numeric.Sum(amounts...)
		c.AmountPaid = &paid

		slices.SortStableFunc(received, func(a, b crmdomain.Payment) int {
			switch {
			case a.PaymentDate == nil && b.PaymentDate == nil:
				return 0
			case a.PaymentDate == nil:
				return 1
			case b.PaymentDate == nil:
				return -1
			}
			return cmp.Compare(b.PaymentDate.UnixNano(), a.PaymentDate.UnixNano())
		})
		// Refunds are money going back to the client, never the latest
		// amount received.
		if i := slices.IndexFunc(received, func(p crmdomain.Payment) bool {
			return p.PaymentType != crmdomain.PaymentTypeRimborso
		}); i >= 0 {
			latest := numeric.Finite(received[i].Amount)
			c.LatestReceivedPaymentAmount = &latest
		}
	}

	var paid float64
	if c.AmountPaid != nil {
		paid = *c.AmountPaid
	}
	c.AmountDue = numeric.Sub(c.QuoteAmount, paid)

	for _, s := range in.Services {
		if s.IsTaxable != nil && !*s.IsTaxable {
			c.HasNonTaxableServices = true
			break
		}
	}
	return c
}

func trim(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
