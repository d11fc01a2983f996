package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/gestionale/internal/config"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/registry"
)

type SendPolicy string

const (
	SendPolicyNever       SendPolicy = "never"
	SendPolicyManual      SendPolicy = "manual"
	SendPolicyRecommended SendPolicy = "recommended"
)

// Field ids reported in BuiltTemplate.MissingFields.
const (
	FieldClientName       = "client_name"
	FieldClientEmail      = "client_email"
	FieldQuoteDescription = "quote_description"
	FieldQuoteAmount      = "quote_amount"
	FieldAmountPaid       = "amount_paid"
)

type SendMode string

const (
	SendModeManual    SendMode = "manual"
	SendModeAutomatic SendMode = "automatic"
)

type TemplateDefinition struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	Label          string     `json:"label"`
	SendPolicy     SendPolicy `json:"sendPolicy"`
	RequiredFields []string   `json:"requiredFields"`
}

// EmailContext is everything a status email may mention, already derived
// from the quote and its related records.
type EmailContext struct {
	BusinessName string
	Signature    string
	ReplyTo      string
	Phone        string
	IBAN         string
	PortalURL    string

	QuoteID          string
	ClientName       string
	ClientEmail      string
	QuoteDescription string
	ServiceType      string
	ProjectName      string
	EventStart       *time.Time
	EventEnd         *time.Time

	QuoteAmount                 float64
	AmountPaid                  *float64
	LatestReceivedPaymentAmount *float64
	AmountDue                   float64

	HasNonTaxableServices bool
}

type ContextInput struct {
	Quote    crmdomain.Quote
	Client   *crmdomain.Client
	Project  *crmdomain.Project
	Payments []crmdomain.Payment
	Services []crmdomain.Service
	Profile  config.BusinessProfile
}

type TemplateInput struct {
	Status        string
	Context       EmailContext
	CustomMessage string
	Semantic      registry.SemanticRegistry
}

type BuiltTemplate struct {
	TemplateID               string     `json:"templateId"`
	Status                   string     `json:"status"`
	StatusLabel              string     `json:"statusLabel"`
	SendPolicy               SendPolicy `json:"sendPolicy"`
	CanSend                  bool       `json:"canSend"`
	AutomaticSendAllowed     bool       `json:"automaticSendAllowed"`
	AutomaticSendBlockReason *string    `json:"automaticSendBlockReason,omitempty"`
	MissingFields            []string   `json:"missingFields"`
	Subject                  string     `json:"subject"`
	PreviewText              string     `json:"previewText"`
	HTML                     string     `json:"html"`
	Text                     string     `json:"text"`
}

type SendRequest struct {
	QuoteID       string   `json:"-"`
	Mode          SendMode `json:"mode"`
	Status        string   `json:"status"`
	CustomMessage string   `json:"customMessage"`
}

type SendResult struct {
	QuoteID    string    `json:"quoteId"`
	TemplateID string    `json:"templateId"`
	Status     string    `json:"status"`
	Mode       SendMode  `json:"mode"`
	Recipient  string    `json:"recipient"`
	SentAt     time.Time `json:"sentAt"`
}

type Service interface {
	Preview(ctx context.Context, quoteID, status string) (BuiltTemplate, error)
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
