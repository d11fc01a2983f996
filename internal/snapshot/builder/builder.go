// Package builder assembles the unified CRM read snapshot from already
// loaded collections. It performs no I/O and never mutates its input.
package builder

import (
	"cmp"
	"slices"
	"time"
	_ "time/tzdata"

	crm "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/financial"
	"github.com/smallbiznis/gestionale/internal/registry"
	"github.com/smallbiznis/gestionale/internal/snapshot/domain"
	"github.com/smallbiznis/gestionale/pkg/numeric"
)

const (
	BusinessTimezone = "Europe/Rome"

	sliceLimit          = 5
	clientContactLimit  = 3
	clientProjectLimit  = 3
	contactProjectLimit = 3
	projectContactLimit = 4

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	labelLayout     = "02/01/2006 15:04"
)

var caveats = []string{
	"Questo snapshot e' read-only: descrive lo stato del CRM e non esegue alcuna modifica.",
	"Le liste recenti, aperte e attive includono al massimo 5 elementi; i conteggi si riferiscono al totale.",
	"Gli importi sono in euro e derivano dai record presenti al momento della generazione.",
	"I pagamenti di tipo rimborso sono conteggiati in negativo; i residui possono essere negativi.",
}

var businessLocation = loadLocation(BusinessTimezone)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BuildUnifiedCrmReadContext joins the collections into one snapshot. A zero
// generatedAt means now. The output is deterministic for a fixed generatedAt.
func BuildUnifiedCrmReadContext(
	c crm.Collections,
	semantic registry.SemanticRegistry,
	capability registry.CapabilityRegistry,
	generatedAt time.Time,
) domain.UnifiedCrmReadContext {
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	b := newBuilder(c, semantic)

	return domain.UnifiedCrmReadContext{
		Meta: domain.Meta{
			GeneratedAt:      generatedAt.UTC().Format(timestampLayout),
			GeneratedAtLabel: generatedAt.In(businessLocation).Format(labelLayout),
			BusinessTimezone: BusinessTimezone,
			RoutePrefix:      capability.RoutePrefix,
			Scope:            domain.Scope,
		},
		Registries: domain.Registries{
			Semantic:   semantic,
			Capability: capability,
		},
		Snapshot: b.snapshot(),
		Caveats:  slices.Clone(caveats),
	}
}

type builder struct {
	c        crm.Collections
	semantic registry.SemanticRegistry

	clients  map[string]*crm.Client
	projects map[string]*crm.Project
	contacts map[string]*crm.Contact

	financials map[string]financial.ProjectFinancialSummary

	paymentsByQuote          map[string][]crm.Payment
	contactsByClient         map[string][]*crm.Contact
	projectContactsByProject map[string][]crm.ProjectContact
	projectContactsByContact map[string][]crm.ProjectContact
	activeProjectsByClient   map[string][]*crm.Project

	openQuotes      []*crm.Quote
	activeProjects  []*crm.Project
	pendingPayments []*crm.Payment
}

func newBuilder(c crm.Collections, semantic registry.SemanticRegistry) *builder {
	b := &builder{
		c:                        c,
		semantic:                 semantic,
		clients:                  make(map[string]*crm.Client, len(c.Clients)),
		projects:                 make(map[string]*crm.Project, len(c.Projects)),
		contacts:                 make(map[string]*crm.Contact, len(c.Contacts)),
		paymentsByQuote:          make(map[string][]crm.Payment),
		contactsByClient:         make(map[string][]*crm.Contact),
		projectContactsByProject: make(map[string][]crm.ProjectContact),
		projectContactsByContact: make(map[string][]crm.ProjectContact),
		activeProjectsByClient:   make(map[string][]*crm.Project),
	}

	for i := range c.Clients {
		b.clients[c.Clients[i].ID] = &c.Clients[i]
	}
	for i := range c.Projects {
		b.projects[c.Projects[i].ID] = &c.Projects[i]
	}
	for i := range c.Contacts {
		b.contacts[c.Contacts[i].ID] = &c.Contacts[i]
	}

	b.financials = financial.BuildProjectFinancialSummaries(financial.ProjectInput{
		Projects: c.Projects,
		Services: c.Services,
		Payments: c.Payments,
		Expenses: c.Expenses,
	})

	for _, p := range c.Payments {
		if p.QuoteID != nil {
			b.paymentsByQuote[*p.QuoteID] = append(b.paymentsByQuote[*p.QuoteID], p)
		}
	}
	for i := range c.Contacts {
		if id := c.Contacts[i].ClientID; id != nil {
			b.contactsByClient[*id] = append(b.contactsByClient[*id], &c.Contacts[i])
		}
	}
	for _, pc := range c.ProjectContacts {
		b.projectContactsByProject[pc.ProjectID] = append(b.projectContactsByProject[pc.ProjectID], pc)
		b.projectContactsByContact[pc.ContactID] = append(b.projectContactsByContact[pc.ContactID], pc)
	}

	for i := range c.Quotes {
		if c.Quotes[i].IsOpen() {
			b.openQuotes = append(b.openQuotes, &c.Quotes[i])
		}
	}
	sortByTimeDesc(b.openQuotes, func(q *crm.Quote) *time.Time { return q.CreatedAt })

	for i := range c.Projects {
		if c.Projects[i].IsActive() {
			b.activeProjects = append(b.activeProjects, &c.Projects[i])
		}
	}
	sortByTimeDesc(b.activeProjects, func(p *crm.Project) *time.Time { return p.StartDate })
	for _, p := range b.activeProjects {
		b.activeProjectsByClient[p.ClientID] = append(b.activeProjectsByClient[p.ClientID], p)
	}

	for i := range c.Payments {
		if c.Payments[i].IsPending() {
			b.pendingPayments = append(b.pendingPayments, &c.Payments[i])
		}
	}
	sortByTimeAsc(b.pendingPayments, func(p *crm.Payment) *time.Time { return p.DueTime() })

	return b
}

func (b *builder) snapshot() domain.Snapshot {
	var totals domain.Totals
	for _, q := range b.openQuotes {
		totals.OpenQuotesAmount = numeric.Sum(totals.OpenQuotesAmount, q.Amount)
	}
	for _, p := range b.pendingPayments {
		totals.PendingPaymentsAmount = numeric.Sum(totals.PendingPaymentsAmount, p.Amount)
	}
	// Stored amounts, not operational ones: markup, credits and km rates
	// only apply inside project financials and expense entries.
	for _, e := range b.c.Expenses {
		totals.ExpensesAmount = numeric.Sum(totals.ExpensesAmount, numeric.Float(e.Amount))
	}

	return domain.Snapshot{
		Counts: domain.Counts{
			Clients:         len(b.c.Clients),
			Contacts:        len(b.c.Contacts),
			Quotes:          len(b.c.Quotes),
			OpenQuotes:      len(b.openQuotes),
			Projects:        len(b.c.Projects),
			ActiveProjects:  len(b.activeProjects),
			Services:        len(b.c.Services),
			Payments:        len(b.c.Payments),
			PendingPayments: len(b.pendingPayments),
			Expenses:        len(b.c.Expenses),
		},
		Totals:          totals,
		RecentClients:   b.recentClients(),
		RecentContacts:  b.recentContacts(),
		OpenQuotes:      mapLimit(b.openQuotes, sliceLimit, b.quoteEntry),
		ActiveProjects:  mapLimit(b.activeProjects, sliceLimit, b.projectEntry),
		PendingPayments: mapLimit(b.pendingPayments, sliceLimit, b.paymentEntry),
		RecentExpenses:  b.recentExpenses(),
	}
}

func (b *builder) recentClients() []domain.ClientEntry {
	clients := pointers(b.c.Clients)
	sortByTimeDesc(clients, func(c *crm.Client) *time.Time { return c.CreatedAt })

	return mapLimit(clients, sliceLimit, func(c *crm.Client) domain.ClientEntry {
		contacts := slices.Clone(b.contactsByClient[c.ID])
		sortByTimeDesc(contacts, (*crm.Contact).RecencyTime)

		return domain.ClientEntry{
			ClientID:       c.ID,
			ClientName:     c.DisplayName(),
			ClientType:     c.ClientType,
			Email:          c.Email,
			Phone:          c.Phone,
			BillingName:    c.BillingName,
			VATNumber:      c.VATNumber,
			FiscalCode:     c.FiscalCode,
			BillingAddress: optional(c.BillingAddress()),
			BillingSDICode: c.BillingSDICode,
			BillingPEC:     c.BillingPEC,
			CreatedAt:      formatTime(c.CreatedAt),
			Contacts: mapLimit(contacts, clientContactLimit, func(ct *crm.Contact) domain.ContactRef {
				return contactRef(ct, false)
			}),
			ActiveProjects: mapLimit(b.activeProjectsByClient[c.ID], clientProjectLimit, b.projectRef),
		}
	})
}

func (b *builder) recentContacts() []domain.ContactEntry {
	contacts := pointers(b.c.Contacts)
	sortByTimeDesc(contacts, (*crm.Contact).RecencyTime)

	return mapLimit(contacts, sliceLimit, func(ct *crm.Contact) domain.ContactEntry {
		var linked []*crm.Project
		for _, pc := range b.projectContactsByContact[ct.ID] {
			if p, ok := b.projects[pc.ProjectID]; ok {
				linked = append(linked, p)
			}
		}

		entry := domain.ContactEntry{
			ContactID:      ct.ID,
			DisplayName:    ct.DisplayName(),
			Title:          ct.Title,
			Email:          optional(ct.PrimaryEmail()),
			Phone:          optional(ct.PrimaryPhone()),
			ClientID:       ct.ClientID,
			UpdatedAt:      formatTime(ct.RecencyTime()),
			LinkedProjects: mapLimit(linked, contactProjectLimit, b.projectRef),
		}
		if ct.ClientID != nil {
			entry.ClientName = b.clientName(*ct.ClientID)
		}
		return entry
	})
}

func (b *builder) quoteEntry(q *crm.Quote) domain.QuoteEntry {
	return domain.QuoteEntry{
		QuoteID:     q.ID,
		ClientID:    q.ClientID,
		ClientName:  b.clientName(q.ClientID),
		ProjectID:   q.ProjectID,
		ProjectName: b.projectName(q.ProjectID),
		Description: q.Description,
		ServiceType: q.ServiceType,
		Status:      string(q.Status),
		StatusLabel: b.semantic.QuoteStatusLabel(string(q.Status)),
		Amount:      numeric.Finite(q.Amount),
		CreatedAt:   formatTime(q.CreatedAt),
		Payments:    financial.BuildQuotePaymentsSummary(q.Amount, b.paymentsByQuote[q.ID]),
	}
}

func (b *builder) projectEntry(p *crm.Project) domain.ProjectEntry {
	links := slices.Clone(b.projectContactsByProject[p.ID])
	slices.SortStableFunc(links, func(x, y crm.ProjectContact) int {
		switch {
		case x.IsPrimary == y.IsPrimary:
			return 0
		case x.IsPrimary:
			return -1
		default:
			return 1
		}
	})

	contacts := make([]domain.ContactRef, 0, min(len(links), projectContactLimit))
	for _, pc := range links {
		if len(contacts) == projectContactLimit {
			break
		}
		if ct, ok := b.contacts[pc.ContactID]; ok {
			contacts = append(contacts, contactRef(ct, pc.IsPrimary))
		}
	}

	financials, ok := b.financials[p.ID]
	if !ok {
		financials = financial.ProjectFinancialSummary{ProjectID: p.ID}
	}

	return domain.ProjectEntry{
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		ClientID:      p.ClientID,
		ClientName:    b.clientName(p.ClientID),
		Category:      p.Category,
		CategoryLabel: b.semantic.ProjectCategoryLabel(p.Category),
		Status:        string(p.Status),
		StatusLabel:   b.semantic.ProjectStatusLabel(string(p.Status)),
		StartDate:     formatTime(p.StartDate),
		EndDate:       formatTime(p.EndDate),
		Financials:    financials,
		Contacts:      contacts,
	}
}

func (b *builder) paymentEntry(p *crm.Payment) domain.PaymentEntry {
	return domain.PaymentEntry{
		PaymentID:        p.ID,
		ClientID:         p.ClientID,
		ClientName:       b.clientName(p.ClientID),
		ProjectID:        p.ProjectID,
		ProjectName:      b.projectName(p.ProjectID),
		QuoteID:          p.QuoteID,
		PaymentType:      string(p.PaymentType),
		PaymentTypeLabel: b.semantic.PaymentTypeLabel(string(p.PaymentType)),
		Status:           string(p.Status),
		StatusLabel:      b.semantic.PaymentStatusLabel(string(p.Status)),
		Amount:           numeric.Finite(p.Amount),
		PaymentDate:      formatTime(p.DueTime()),
		InvoiceRef:       p.InvoiceRef,
	}
}

func (b *builder) recentExpenses() []domain.ExpenseEntry {
	expenses := pointers(b.c.Expenses)
	sortByTimeDesc(expenses, func(e *crm.Expense) *time.Time { return e.ExpenseDate })

	return mapLimit(expenses, sliceLimit, func(e *crm.Expense) domain.ExpenseEntry {
		entry := domain.ExpenseEntry{
			ExpenseID:        e.ID,
			ClientID:         e.ClientID,
			ProjectID:        e.ProjectID,
			ProjectName:      b.projectName(e.ProjectID),
			ExpenseType:      string(e.ExpenseType),
			ExpenseTypeLabel: b.semantic.ExpenseTypeLabel(string(e.ExpenseType)),
			Amount:           financial.GetExpenseOperationalAmount(*e),
			Description:      e.Description,
			ExpenseDate:      formatTime(e.ExpenseDate),
			InvoiceRef:       e.InvoiceRef,
		}
		if e.ClientID != nil {
			entry.ClientName = b.clientName(*e.ClientID)
		}
		return entry
	})
}

func (b *builder) projectRef(p *crm.Project) domain.ProjectRef {
	return domain.ProjectRef{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Status:      string(p.Status),
		StatusLabel: b.semantic.ProjectStatusLabel(string(p.Status)),
	}
}

func (b *builder) clientName(id string) *string {
	c, ok := b.clients[id]
	if !ok {
		return nil
	}
	return optional(c.DisplayName())
}

func (b *builder) projectName(id *string) *string {
	if id == nil {
		return nil
	}
	p, ok := b.projects[*id]
	if !ok {
		return nil
	}
	return optional(p.Name)
}

func contactRef(ct *crm.Contact, primary bool) domain.ContactRef {
	return domain.ContactRef{
		ContactID:   ct.ID,
		DisplayName: ct.DisplayName(),
		Title:       ct.Title,
		Email:       optional(ct.PrimaryEmail()),
		Phone:       optional(ct.PrimaryPhone()),
		IsPrimary:   primary,
	}
}

func pointers[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

// mapLimit converts at most limit items. The result is never nil so empty
// lists encode as [].
func mapLimit[T, R any](in []T, limit int, fn func(T) R) []R {
	n := min(len(in), limit)
	out := make([]R, 0, n)
	for _, item := range in[:n] {
		out = append(out, fn(item))
	}
	return out
}

// sortByTimeDesc sorts newest first; undated items go last and ties keep
// input order.
func sortByTimeDesc[T any](items []T, key func(T) *time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareTimes(key(b), key(a), true)
	})
}

// sortByTimeAsc sorts oldest first; undated items go last and ties keep
// input order.
func sortByTimeAsc[T any](items []T, key func(T) *time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareTimes(key(a), key(b), false)
	})
}

func compareTimes(x, y *time.Time, reversed bool) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		if reversed {
			return -1
		}
		return 1
	case y == nil:
		if reversed {
			return 1
		}
		return -1
	}
	return cmp.Compare(x.UnixNano(), y.UnixNano())
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(timestampLayout)
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
