package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusInCorso    ProjectStatus = "in_corso"
	ProjectStatusCompletato ProjectStatus = "completato"
	ProjectStatusInPausa    ProjectStatus = "in_pausa"
	ProjectStatusCancellato ProjectStatus = "cancellato"
)

type QuoteStatus string

const (
	QuoteStatusPrimoContatto     QuoteStatus = "primo_contatto"
	QuoteStatusPreventivoInviato QuoteStatus = "preventivo_inviato"
	QuoteStatusInTrattativa      QuoteStatus = "in_trattativa"
	QuoteStatusAccettato         QuoteStatus = "accettato"
	QuoteStatusAccontoRicevuto   QuoteStatus = "acconto_ricevuto"
	QuoteStatusInLavorazione     QuoteStatus = "in_lavorazione"
	QuoteStatusCompletato        QuoteStatus = "completato"
	QuoteStatusSaldato           QuoteStatus = "saldato"
	QuoteStatusRifiutato         QuoteStatus = "rifiutato"
	QuoteStatusPerso             QuoteStatus = "perso"
)

type PaymentType string

const (
	PaymentTypeAcconto       PaymentType = "acconto"
	PaymentTypeSaldo         PaymentType = "saldo"
	PaymentTypeParziale      PaymentType = "parziale"
	PaymentTypeRimborsoSpese PaymentType = "rimborso_spese"
	PaymentTypeRimborso      PaymentType = "rimborso"
)

type PaymentStatus string

const (
	PaymentStatusRicevuto PaymentStatus = "ricevuto"
	PaymentStatusInAttesa PaymentStatus = "in_attesa"
	PaymentStatusScaduto  PaymentStatus = "scaduto"
)

type PaymentMethod string

const (
	PaymentMethodBonifico PaymentMethod = "bonifico"
	PaymentMethodContanti PaymentMethod = "contanti"
	PaymentMethodPaypal   PaymentMethod = "paypal"
	PaymentMethodCarta    PaymentMethod = "carta"
	PaymentMethodRiba     PaymentMethod = "riba"
	PaymentMethodAltro    PaymentMethod = "altro"
)

type ExpenseType string

const (
	ExpenseTypeSpostamentoKm     ExpenseType = "spostamento_km"
	ExpenseTypeAcquistoMateriale ExpenseType = "acquisto_materiale"
	ExpenseTypeNoleggio          ExpenseType = "noleggio"
	ExpenseTypeCreditoRicevuto   ExpenseType = "credito_ricevuto"
	ExpenseTypeAltro             ExpenseType = "altro"
)

// ContactInfoType tags a contact email or phone entry.
type ContactInfoType string

const (
	ContactInfoWork  ContactInfoType = "Work"
	ContactInfoHome  ContactInfoType = "Home"
	ContactInfoOther ContactInfoType = "Other"
)

type Client struct {
	ID                   string     `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"not null" json:"name"`
	ClientType           *string    `json:"client_type,omitempty"`
	Email                *string    `json:"email,omitempty"`
	Phone                *string    `json:"phone,omitempty"`
	BillingName          *string    `json:"billing_name,omitempty"`
	VATNumber            *string    `gorm:"column:vat_number" json:"vat_number,omitempty"`
	FiscalCode           *string    `json:"fiscal_code,omitempty"`
	BillingAddressStreet *string    `json:"billing_address_street,omitempty"`
	BillingAddressNumber *string    `json:"billing_address_number,omitempty"`
	BillingPostalCode    *string    `json:"billing_postal_code,omitempty"`
	BillingCity          *string    `json:"billing_city,omitempty"`
	BillingProvince      *string    `json:"billing_province,omitempty"`
	BillingCountry       *string    `json:"billing_country,omitempty"`
	BillingSDICode       *string    `gorm:"column:billing_sdi_code" json:"billing_sdi_code,omitempty"`
	BillingPEC           *string    `gorm:"column:billing_pec" json:"billing_pec,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

func (Client) TableName() string { return "clients" }

// DisplayName prefers the operational name and falls back to the billing name.
func (c Client) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return strings.TrimSpace(deref(c.BillingName))
}

// BillingAddress joins the structured billing address into one line.
func (c Client) BillingAddress() string {
	street := joinNonEmpty(" ", deref(c.BillingAddressStreet), deref(c.BillingAddressNumber))
	city := joinNonEmpty(" ", deref(c.BillingPostalCode), deref(c.BillingCity))
	if province := strings.TrimSpace(deref(c.BillingProvince)); province != "" {
		city = joinNonEmpty(" ", city, "("+province+")")
	}
	return joinNonEmpty(", ", street, city, deref(c.BillingCountry))
}

type ContactEmail struct {
	Email string          `json:"email"`
	Type  ContactInfoType `json:"type"`
}

type ContactPhone struct {
	Number string          `json:"number"`
	Type   ContactInfoType `json:"type"`
}

type Contact struct {
	ID        string                           `gorm:"primaryKey" json:"id"`
	ClientID  *string                          `json:"client_id,omitempty"`
	FirstName *string                          `json:"first_name,omitempty"`
	LastName  *string                          `json:"last_name,omitempty"`
	Title     *string                          `json:"title,omitempty"`
	Emails    datatypes.JSONSlice[ContactEmail] `gorm:"column:email_jsonb" json:"email_jsonb"`
	Phones    datatypes.JSONSlice[ContactPhone] `gorm:"column:phone_jsonb" json:"phone_jsonb"`
	Notes     *string                          `json:"notes,omitempty"`
	CreatedAt *time.Time                       `json:"created_at,omitempty"`
	UpdatedAt *time.Time                       `json:"updated_at,omitempty"`
}

func (Contact) TableName() string { return "contacts" }

func (c Contact) DisplayName() string {
	name := joinNonEmpty(" ", deref(c.FirstName), deref(c.LastName))
	if name != "" {
		return name
	}
	if email := c.PrimaryEmail(); email != "" {
		return email
	}
	return "Contatto senza nome"
}

// PrimaryEmail returns the first Work email, else the first email.
func (c Contact) PrimaryEmail() string {
	for _, entry := range c.Emails {
		if entry.Type == ContactInfoWork && strings.TrimSpace(entry.Email) != "" {
			return strings.TrimSpace(entry.Email)
		}
	}
	for _, entry := range c.Emails {
		if v := strings.TrimSpace(entry.Email); v != "" {
			return v
		}
	}
	return ""
}

// PrimaryPhone returns the first Work phone, else the first phone.
func (c Contact) PrimaryPhone() string {
	for _, entry := range c.Phones {
		if entry.Type == ContactInfoWork && strings.TrimSpace(entry.Number) != "" {
			return strings.TrimSpace(entry.Number)
		}
	}
	for _, entry := range c.Phones {
		if v := strings.TrimSpace(entry.Number); v != "" {
			return v
		}
	}
	return ""
}

// RecencyTime is updated_at, falling back to created_at.
func (c Contact) RecencyTime() *time.Time {
	if c.UpdatedAt != nil {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

type Project struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	ClientID  string        `gorm:"not null;index" json:"client_id"`
	Name      string        `gorm:"not null" json:"name"`
	Category  string        `json:"category"`
	Status    ProjectStatus `json:"status"`
	StartDate *time.Time    `json:"start_date,omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
}

func (Project) TableName() string { return "projects" }

// IsActive reports whether the project is neither completed nor cancelled.
func (p Project) IsActive() bool {
	return p.Status != ProjectStatusCompletato && p.Status != ProjectStatusCancellato
}

type Quote struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	ClientID    string      `gorm:"not null;index" json:"client_id"`
	ProjectID   *string     `gorm:"index" json:"project_id,omitempty"`
	ServiceType *string     `json:"service_type,omitempty"`
	Description *string     `json:"description,omitempty"`
	Amount      float64     `json:"amount"`
	Status      QuoteStatus `json:"status"`
	EventStart  *time.Time  `json:"event_start,omitempty"`
	EventEnd    *time.Time  `json:"event_end,omitempty"`
	SentDate    *time.Time  `json:"sent_date,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

func (Quote) TableName() string { return "quotes" }

// IsOpen reports whether the quote has not reached a terminal status.
func (q Quote) IsOpen() bool {
	switch q.Status {
	case QuoteStatusSaldato, QuoteStatusRifiutato, QuoteStatusPerso, QuoteStatusCompletato:
		return false
	default:
		return true
	}
}

type Service struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ProjectID   string     `gorm:"not null;index" json:"project_id"`
	ServiceDate *time.Time `json:"service_date,omitempty"`
	ServiceType *string    `json:"service_type,omitempty"`
	FeeShooting *float64   `json:"fee_shooting,omitempty"`
	FeeEditing  *float64   `json:"fee_editing,omitempty"`
	FeeOther    *float64   `json:"fee_other,omitempty"`
	Discount    *float64   `json:"discount,omitempty"`
	KmDistance  *float64   `json:"km_distance,omitempty"`
	KmRate      *float64   `json:"km_rate,omitempty"`
	IsTaxable   *bool      `json:"is_taxable,omitempty"`
	Description *string    `json:"description,omitempty"`
	InvoiceRef  *string    `json:"invoice_ref,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (Service) TableName() string { return "services" }

type Payment struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	ClientID      string        `gorm:"not null;index" json:"client_id"`
	ProjectID     *string       `gorm:"index" json:"project_id,omitempty"`
	QuoteID       *string       `gorm:"index" json:"quote_id,omitempty"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	PaymentType   PaymentType   `json:"payment_type"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	InvoiceRef    *string       `json:"invoice_ref,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

// SignedAmount is negative for refunds and positive otherwise.
func (p Payment) SignedAmount() float64 {
	if p.PaymentType == PaymentTypeRimborso {
		return -p.Amount
	}
	return p.Amount
}

// IsPending reports whether the payment is still expected from the client.
func (p Payment) IsPending() bool {
	return p.Status != PaymentStatusRicevuto && p.PaymentType != PaymentTypeRimborso
}

// DueTime is payment_date, falling back to created_at.
func (p Payment) DueTime() *time.Time {
	if p.PaymentDate != nil {
		return p.PaymentDate
	}
	return p.CreatedAt
}

type Expense struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	ClientID      *string     `gorm:"index" json:"client_id,omitempty"`
	ProjectID     *string     `gorm:"index" json:"project_id,omitempty"`
	ExpenseDate   *time.Time  `json:"expense_date,omitempty"`
	ExpenseType   ExpenseType `json:"expense_type"`
	Amount        *float64    `json:"amount,omitempty"`
	MarkupPercent *float64    `json:"markup_percent,omitempty"`
	KmDistance    *float64    `json:"km_distance,omitempty"`
	KmRate        *float64    `json:"km_rate,omitempty"`
	Description   *string     `json:"description,omitempty"`
	InvoiceRef    *string     `json:"invoice_ref,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	CreatedAt     *time.Time  `json:"created_at,omitempty"`
}

func (Expense) TableName() string { return "expenses" }

type ProjectContact struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	ProjectID string     `gorm:"not null;index" json:"project_id"`
	ContactID string     `gorm:"not null;index" json:"contact_id"`
	IsPrimary bool       `json:"is_primary"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (ProjectContact) TableName() string { return "project_contacts" }

// Collections is the already-fetched input of the snapshot builder.
type Collections struct {
	Clients         []Client
	Contacts        []Contact
	Quotes          []Quote
	Projects        []Project
	ProjectContacts []ProjectContact
	Services        []Service
	Payments        []Payment
	Expenses        []Expense
}

// WorkspaceProject carries project ownership for referential checks.
type WorkspaceProject struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
}

// Workspace is the minimal reference set used to validate imported records.
type Workspace struct {
	ClientIDs []string           `json:"client_ids"`
	Projects  []WorkspaceProject `json:"projects"`
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
