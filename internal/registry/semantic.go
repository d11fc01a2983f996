// Package registry holds the static vocabulary of the CRM: labels for every
// enumerated value, the documented formulas behind the derived amounts and
// the route/dialog map of the admin application. Both registries are plain
// values handed to consumers; nothing in here is mutable global state.
package registry

type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type Formula struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Expression string `json:"expression"`
	Notes      string `json:"notes,omitempty"`
}

type Rule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type Dictionaries struct {
	ClientTypes       []Option `json:"clientTypes"`
	ProjectStatuses   []Option `json:"projectStatuses"`
	ProjectCategories []Option `json:"projectCategories"`
	QuoteStatuses     []Option `json:"quoteStatuses"`
	PaymentTypes      []Option `json:"paymentTypes"`
	PaymentStatuses   []Option `json:"paymentStatuses"`
	PaymentMethods    []Option `json:"paymentMethods"`
	ExpenseTypes      []Option `json:"expenseTypes"`
	ContactInfoTypes  []Option `json:"contactInfoTypes"`
}

type SemanticRegistry struct {
	Dictionaries Dictionaries `json:"dictionaries"`
	Formulas     []Formula    `json:"formulas"`
	Rules        []Rule       `json:"rules"`
}

func DefaultSemantic() SemanticRegistry {
	return SemanticRegistry{
		Dictionaries: Dictionaries{
			ClientTypes: []Option{
				{Value: "azienda", Label: "Azienda"},
				{Value: "privato", Label: "Privato"},
				{Value: "ente", Label: "Ente pubblico"},
				{Value: "agenzia", Label: "Agenzia"},
			},
			ProjectStatuses: []Option{
				{Value: "in_corso", Label: "In corso"},
				{Value: "completato", Label: "Completato"},
				{Value: "in_pausa", Label: "In pausa"},
				{Value: "cancellato", Label: "Cancellato"},
			},
			ProjectCategories: []Option{
				{Value: "produzione_video", Label: "Produzione video"},
				{Value: "fotografia", Label: "Fotografia"},
				{Value: "evento", Label: "Evento"},
				{Value: "matrimonio", Label: "Matrimonio"},
				{Value: "spot", Label: "Spot pubblicitario"},
				{Value: "social", Label: "Contenuti social"},
				{Value: "altro", Label: "Altro"},
			},
			QuoteStatuses: []Option{
				{Value: "primo_contatto", Label: "Primo contatto"},
				{Value: "preventivo_inviato", Label: "Preventivo inviato"},
				{Value: "in_trattativa", Label: "In trattativa"},
				{Value: "accettato", Label: "Accettato"},
				{Value: "acconto_ricevuto", Label: "Acconto ricevuto"},
				{Value: "in_lavorazione", Label: "In lavorazione"},
				{Value: "completato", Label: "Completato"},
				{Value: "saldato", Label: "Saldato"},
				{Value: "rifiutato", Label: "Rifiutato"},
				{Value: "perso", Label: "Perso"},
			},
			PaymentTypes: []Option{
				{Value: "acconto", Label: "Acconto"},
				{Value: "saldo", Label: "Saldo"},
				{Value: "parziale", Label: "Parziale"},
				{Value: "rimborso_spese", Label: "Rimborso spese"},
				{Value: "rimborso", Label: "Rimborso", Description: "Somma restituita al cliente, conta in negativo nei totali."},
			},
			PaymentStatuses: []Option{
				{Value: "ricevuto", Label: "Ricevuto"},
				{Value: "in_attesa", Label: "In attesa"},
				{Value: "scaduto", Label: "Scaduto"},
			},
			PaymentMethods: []Option{
				{Value: "bonifico", Label: "Bonifico"},
				{Value: "contanti", Label: "Contanti"},
				{Value: "paypal", Label: "PayPal"},
				{Value: "carta", Label: "Carta"},
				{Value: "riba", Label: "RiBa"},
				{Value: "assegno", Label: "Assegno"},
				{Value: "altro", Label: "Altro"},
			},
			ExpenseTypes: []Option{
				{Value: "spostamento_km", Label: "Spostamento (km)"},
				{Value: "acquisto_materiale", Label: "Acquisto materiale"},
				{Value: "noleggio", Label: "Noleggio"},
				{Value: "credito_ricevuto", Label: "Credito ricevuto", Description: "Riduce i costi del progetto."},
				{Value: "altro", Label: "Altro"},
			},
			ContactInfoTypes: []Option{
				{Value: "Work", Label: "Lavoro"},
				{Value: "Home", Label: "Casa"},
				{Value: "Other", Label: "Altro"},
			},
		},
		Formulas: []Formula{
			{
				ID:         "service_net_value",
				Label:      "Valore netto servizio",
				Expression: "(fee_shooting + fee_editing + fee_other) * (1 - discount / 100)",
				Notes:      "Lo sconto e' una percentuale.",
			},
			{
				ID:         "expense_operational_amount",
				Label:      "Importo operativo spesa",
				Expression: "credito_ricevuto: -amount; spostamento_km: km_distance * km_rate; altrimenti: amount * (1 + markup_percent / 100)",
			},
			{
				ID:         "km_reimbursement",
				Label:      "Rimborso chilometrico",
				Expression: "km_distance * (km_rate ?? default_km_rate)",
			},
			{
				ID:         "quote_remaining_amount",
				Label:      "Residuo preventivo",
				Expression: "quote.amount - sum(pagamenti collegati, rimborsi in negativo)",
				Notes:      "Puo' essere negativo in caso di incasso superiore al preventivo.",
			},
			{
				ID:         "project_balance_due",
				Label:      "Saldo progetto",
				Expression: "totalFees + totalExpenses - totalPaid",
				Notes:      "totalPaid considera solo i pagamenti ricevuti.",
			},
		},
		Rules: []Rule{
			{ID: "open_quote", Description: "Un preventivo e' aperto se lo stato non e' saldato, rifiutato, perso o completato."},
			{ID: "active_project", Description: "Un progetto e' attivo se lo stato non e' completato o cancellato."},
			{ID: "pending_payment", Description: "Un pagamento e' in sospeso se non e' ricevuto e non e' un rimborso."},
			{ID: "signed_payment", Description: "I pagamenti di tipo rimborso contano in negativo in ogni totale."},
			{ID: "read_only", Description: "Lo snapshot e' in sola lettura: nessuna azione modifica i dati."},
		},
	}
}

func (r SemanticRegistry) QuoteStatusLabel(v string) string {
	return labelFor(r.Dictionaries.QuoteStatuses, v)
}

func (r SemanticRegistry) ProjectStatusLabel(v string) string {
	return labelFor(r.Dictionaries.ProjectStatuses, v)
}

func (r SemanticRegistry) ProjectCategoryLabel(v string) string {
	return labelFor(r.Dictionaries.ProjectCategories, v)
}

func (r SemanticRegistry) PaymentTypeLabel(v string) string {
	return labelFor(r.Dictionaries.PaymentTypes, v)
}

func (r SemanticRegistry) PaymentStatusLabel(v string) string {
	return labelFor(r.Dictionaries.PaymentStatuses, v)
}

func (r SemanticRegistry) ExpenseTypeLabel(v string) string {
	return labelFor(r.Dictionaries.ExpenseTypes, v)
}

// labelFor falls back to the raw value for unknown entries.
func labelFor(options []Option, v string) string {
	for _, o := range options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}
