package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsFallBackToRawValue(t *testing.T) {
	r := DefaultSemantic()

	assert.Equal(t, "Acconto ricevuto", r.QuoteStatusLabel("acconto_ricevuto"))
	assert.Equal(t, "In attesa", r.PaymentStatusLabel("in_attesa"))
	assert.Equal(t, "sconosciuto", r.QuoteStatusLabel("sconosciuto"))
	assert.Equal(t, "", r.ExpenseTypeLabel(""))
}

func TestDefaultSemanticReturnsFreshValues(t *testing.T) {
	a := DefaultSemantic()
	a.Dictionaries.QuoteStatuses[0].Label = "changed"

	b := DefaultSemantic()
	assert.Equal(t, "Primo contatto", b.Dictionaries.QuoteStatuses[0].Label)
}

func TestCapabilityRoutesUsePrefix(t *testing.T) {
	r := DefaultCapability("")
	assert.Equal(t, "#/", r.RoutePrefix)

	route, ok := r.Route("quotes")
	assert.True(t, ok)
	assert.Equal(t, "#/quotes", route)

	_, ok = r.Route("tasks")
	assert.False(t, ok)

	custom := DefaultCapability("/admin/")
	route, _ = custom.Route("payments")
	assert.Equal(t, "/admin/payments", route)
}
