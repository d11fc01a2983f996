package template

import (
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/gestionale/internal/config"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var semantic = registry.DefaultSemantic()

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	return &t
}

func fullContext() domain.EmailContext {
	paid := 300.0
	return domain.EmailContext{
		BusinessName:     "Studio Luce",
		Signature:        "Marta - Studio Luce",
		PortalURL:        "https://studio.example/portale",
		IBAN:             "IT60X0542811101000000123456",
		ClientName:       "Rossi Srl",
		ClientEmail:      "info@rossi.it",
		QuoteDescription: "Servizio fotografico matrimonio",
		QuoteAmount:      1500,
		AmountPaid:       &paid,
		AmountDue:        1200,
	}
}

func TestDefinitionsCoverEveryStatus(t *testing.T) {
	defs := Definitions(semantic)
	require.Len(t, defs, 10)
	assert.Equal(t, "primo_contatto", defs[0].Status)
	assert.Equal(t, "quote-status-preventivo_inviato", defs[1].ID)
	assert.Equal(t, "Preventivo inviato", defs[1].Label)

	defs[0].SendPolicy = domain.SendPolicyRecommended
	assert.Equal(t, domain.SendPolicyNever, DefinitionFor(semantic, "primo_contatto").SendPolicy)
}

func TestDefinitionLabelsComeFromRegistry(t *testing.T) {
	custom := registry.DefaultSemantic()
	for i, opt := range custom.Dictionaries.QuoteStatuses {
		if opt.Value == "accettato" {
			custom.Dictionaries.QuoteStatuses[i].Label = "Confermato"
		}
	}

	assert.Equal(t, "Confermato", DefinitionFor(custom, "accettato").Label)
	assert.Equal(t, "Accettato", DefinitionFor(semantic, "accettato").Label)

	built, err := BuildTemplate(domain.TemplateInput{Status: "accettato", Context: fullContext(), Semantic: custom})
	require.NoError(t, err)
	assert.Equal(t, "Confermato", built.StatusLabel)
}

func TestDefinitionForUnknownStatus(t *testing.T) {
	def := DefinitionFor(semantic, "In Revisione")
	assert.Equal(t, domain.SendPolicyManual, def.SendPolicy)
	assert.Equal(t, "quote-status-in-revisione", def.ID)
	assert.Equal(t, "In Revisione", def.Status)
}

func TestBuildContext(t *testing.T) {
	c := BuildContext(domain.ContextInput{
		Quote: crmdomain.Quote{ID: "q-1", Amount: 1000, Description: strPtr(" Reportage ")},
		Client: &crmdomain.Client{
			Name:  "Bianchi",
			Email: strPtr("anna@bianchi.it"),
		},
		Payments: []crmdomain.Payment{
			{Amount: 200, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeAcconto, PaymentDate: day(2025, 1, 5)},
			{Amount: 300, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeParziale, PaymentDate: day(2025, 2, 5)},
			{Amount: 50, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeRimborso, PaymentDate: day(2025, 1, 20)},
			{Amount: 400, Status: crmdomain.PaymentStatusInAttesa, PaymentType: crmdomain.PaymentTypeSaldo, PaymentDate: day(2025, 3, 5)},
		},
		Services: []crmdomain.Service{{IsTaxable: boolPtr(true)}, {IsTaxable: nil}},
		Profile:  config.BusinessProfile{Name: "Studio Luce"},
	})

	require.NotNil(t, c.AmountPaid)
	assert.Equal(t, 450.0, *c.AmountPaid)
	require.NotNil(t, c.LatestReceivedPaymentAmount)
	assert.Equal(t, 300.0, *c.LatestReceivedPaymentAmount)
	assert.Equal(t, 550.0, c.AmountDue)
	assert.Equal(t, "Reportage", c.QuoteDescription)
	assert.Equal(t, "Studio Luce", c.Signature)
	assert.False(t, c.HasNonTaxableServices)

	c = BuildContext(domain.ContextInput{
		Quote:    crmdomain.Quote{Amount: 800},
		Services: []crmdomain.Service{{IsTaxable: boolPtr(false)}},
	})
	assert.Nil(t, c.AmountPaid)
	assert.Nil(t, c.LatestReceivedPaymentAmount)
	assert.Equal(t, 800.0, c.AmountDue)
	assert.True(t, c.HasNonTaxableServices)
}

func TestBuildContextLatestPaymentSkipsRefunds(t *testing.T) {
	c := BuildContext(domain.ContextInput{
		Quote: crmdomain.Quote{Amount: 1000},
		Payments: []crmdomain.Payment{
			{Amount: 600, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeAcconto, PaymentDate: day(2025, 1, 5)},
			{Amount: 100, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeRimborso, PaymentDate: day(2025, 2, 1)},
		},
	})
	require.NotNil(t, c.AmountPaid)
	assert.Equal(t, 500.0, *c.AmountPaid)
	require.NotNil(t, c.LatestReceivedPaymentAmount)
	assert.Equal(t, 600.0, *c.LatestReceivedPaymentAmount)

	c = BuildContext(domain.ContextInput{
		Quote: crmdomain.Quote{Amount: 1000},
		Payments: []crmdomain.Payment{
			{Amount: 100, Status: crmdomain.PaymentStatusRicevuto, PaymentType: crmdomain.PaymentTypeRimborso, PaymentDate: day(2025, 2, 1)},
		},
	})
	require.NotNil(t, c.AmountPaid)
	assert.Equal(t, -100.0, *c.AmountPaid)
	assert.Nil(t, c.LatestReceivedPaymentAmount)
}

func TestNeverPolicyCannotSend(t *testing.T) {
	for _, status := range []string{"primo_contatto", "perso"} {
		built, err := BuildTemplate(domain.TemplateInput{Status: status, Context: fullContext(), Semantic: semantic})
		require.NoError(t, err)
		assert.Empty(t, built.MissingFields)
		assert.False(t, built.CanSend, status)
		assert.False(t, built.AutomaticSendAllowed, status)
	}
}

func TestMissingFieldsBlockSending(t *testing.T) {
	c := fullContext()
	c.ClientEmail = ""
	c.QuoteDescription = ""

	built, err := BuildTemplate(domain.TemplateInput{Status: "preventivo_inviato", Context: c, Semantic: semantic})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.FieldClientEmail, domain.FieldQuoteDescription}, built.MissingFields)
	assert.False(t, built.CanSend)
	assert.False(t, built.AutomaticSendAllowed)
}

func TestRecommendedStatusAllowsAutomaticSend(t *testing.T) {
	built, err := BuildTemplate(domain.TemplateInput{Status: "acconto_ricevuto", Context: fullContext(), Semantic: semantic})
	require.NoError(t, err)

	assert.Equal(t, "quote-status-acconto_ricevuto", built.TemplateID)
	assert.Equal(t, "Acconto ricevuto", built.StatusLabel)
	assert.True(t, built.CanSend)
	assert.True(t, built.AutomaticSendAllowed)
	assert.Nil(t, built.AutomaticSendBlockReason)
	assert.Contains(t, built.Subject, "Studio Luce")
}

func TestNonTaxableServicesBlockAutomaticSend(t *testing.T) {
	c := fullContext()
	c.HasNonTaxableServices = true

	built, err := BuildTemplate(domain.TemplateInput{Status: "accettato", Context: c, Semantic: semantic})
	require.NoError(t, err)
	assert.True(t, built.CanSend)
	assert.False(t, built.AutomaticSendAllowed)
	require.NotNil(t, built.AutomaticSendBlockReason)
	assert.Equal(t, NonTaxableBlockReason, *built.AutomaticSendBlockReason)
}

func TestManualStatusNeverAutomatic(t *testing.T) {
	built, err := BuildTemplate(domain.TemplateInput{Status: "in_trattativa", Context: fullContext(), Semantic: semantic})
	require.NoError(t, err)
	assert.True(t, built.CanSend)
	assert.False(t, built.AutomaticSendAllowed)

	built, err = BuildTemplate(domain.TemplateInput{Status: "in_revisione", Context: fullContext(), Semantic: semantic})
	require.NoError(t, err)
	assert.Equal(t, domain.SendPolicyManual, built.SendPolicy)
	assert.True(t, built.CanSend)
	assert.Contains(t, built.Text, "in_revisione")
}

func TestHTMLAndTextShareContent(t *testing.T) {
	c := fullContext()
	c.ClientName = "Rossi & <Figli>"

	built, err := BuildTemplate(domain.TemplateInput{
		Status:        "accettato",
		Context:       c,
		CustomMessage: "Ci vediamo sabato.",
		Semantic:      semantic,
	})
	require.NoError(t, err)

	assert.Contains(t, built.HTML, "Rossi &amp; &lt;Figli&gt;")
	assert.NotContains(t, built.HTML, "<Figli>")
	assert.Contains(t, built.Text, "Gentile Rossi & <Figli>,")

	for _, fragment := range []string{"Ci vediamo sabato.", "IBAN: IT60X0542811101000000123456", "https://studio.example/portale", "€ 1.500,00"} {
		assert.True(t, strings.Contains(built.Text, fragment), fragment)
		assert.Contains(t, built.HTML, fragment)
	}
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "€ 1.234,50", formatEuro(1234.5))
	assert.Equal(t, "€ 0,00", formatEuro(0))
}

func TestFormatDateUsesBusinessTimezone(t *testing.T) {
	late := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "01/07/2025", formatDate(&late))
	assert.Equal(t, "", formatDate(nil))
}
