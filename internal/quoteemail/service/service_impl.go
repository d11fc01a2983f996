package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/gestionale/internal/clock"
	"github.com/smallbiznis/gestionale/internal/config"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	obsmetrics "github.com/smallbiznis/gestionale/internal/observability/metrics"
	"github.com/smallbiznis/gestionale/internal/providers/email"
	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/template"
	"github.com/smallbiznis/gestionale/internal/registry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     crmdomain.Repository
	Semantic registry.SemanticRegistry
	Profile  *config.BusinessProfileHolder
	Email    email.Provider
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     crmdomain.Repository
	semantic registry.SemanticRegistry
	profile  *config.BusinessProfileHolder
	email    email.Provider
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("quoteemail.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		semantic: p.Semantic,
		profile:  p.Profile,
		email:    p.Email,
		metrics:  p.Metrics,
	}
}

// Preview builds the email for the quote. An empty status uses the quote's
// current status.
func (s *Service) Preview(ctx context.Context, quoteID, status string) (domain.BuiltTemplate, error) {
	built, _, err := s.build(ctx, quoteID, status, "")
	return built, err
}

func (s *Service) Send(ctx context.Context, req domain.SendRequest) (domain.SendResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.SendModeManual
	}
	if mode != domain.SendModeManual && mode != domain.SendModeAutomatic {
		return domain.SendResult{}, domain.ErrInvalidMode
	}

	built, emailCtx, err := s.build(ctx, req.QuoteID, req.Status, req.CustomMessage)
	if err != nil {
		return domain.SendResult{}, err
	}

	if err := checkSendable(built, mode); err != nil {
		s.metrics.RecordQuoteEmail(ctx, built.Status, string(mode), "refused")
		s.log.Info("quote email refused",
			zap.String("quote_id", req.QuoteID),
			zap.String("status", built.Status),
			zap.String("mode", string(mode)),
			zap.Strings("missing", built.MissingFields),
		)
		return domain.SendResult{}, err
	}
	if emailCtx.ClientEmail == "" {
		return domain.SendResult{}, domain.ErrNoRecipient
	}

	err = s.email.Send(ctx, email.Message{
		To:      []string{emailCtx.ClientEmail},
		ReplyTo: emailCtx.ReplyTo,
		Subject: built.Subject,
		HTML:    built.HTML,
		Text:    built.Text,
	})
	if err != nil {
		s.metrics.RecordQuoteEmail(ctx, built.Status, string(mode), "failed")
		s.log.Error("failed to deliver quote email", zap.String("quote_id", req.QuoteID), zap.Error(err))
		return domain.SendResult{}, err
	}

	s.metrics.RecordQuoteEmail(ctx, built.Status, string(mode), "sent")
	s.log.Info("quote email sent",
		zap.String("quote_id", req.QuoteID),
		zap.String("template_id", built.TemplateID),
		zap.String("mode", string(mode)),
	)
	return domain.SendResult{
		QuoteID:    req.QuoteID,
		TemplateID: built.TemplateID,
		Status:     built.Status,
		Mode:       mode,
		Recipient:  emailCtx.ClientEmail,
		SentAt:     s.clock.Now().UTC(),
	}, nil
}

func checkSendable(built domain.BuiltTemplate, mode domain.SendMode) error {
	if mode == domain.SendModeAutomatic && !built.AutomaticSendAllowed {
		reason := "Invio automatico non consentito per lo stato \"" + built.StatusLabel + "\"."
		if built.AutomaticSendBlockReason != nil {
			reason = *built.AutomaticSendBlockReason
		} else if len(built.MissingFields) > 0 {
			reason = "Dati mancanti: " + strings.Join(built.MissingFields, ", ") + "."
		}
		return &domain.SendNotAllowedError{Reason: reason, Missing: built.MissingFields}
	}
	if !built.CanSend {
		reason := "Lo stato \"" + built.StatusLabel + "\" non prevede email al cliente."
		if built.SendPolicy != domain.SendPolicyNever {
			reason = "Dati mancanti: " + strings.Join(built.MissingFields, ", ") + "."
		}
		return &domain.SendNotAllowedError{Reason: reason, Missing: built.MissingFields}
	}
	return nil
}

func (s *Service) build(ctx context.Context, quoteID, status, customMessage string) (domain.BuiltTemplate, domain.EmailContext, error) {
	quote, err := s.repo.FindQuote(ctx, s.db, strings.TrimSpace(quoteID))
	if err != nil {
		return domain.BuiltTemplate{}, domain.EmailContext{}, err
	}

	in := domain.ContextInput{Quote: *quote, Profile: s.profile.Get()}

	if in.Client, err = s.repo.FindClient(ctx, s.db, quote.ClientID); err != nil && !errors.Is(err, crmdomain.ErrNotFound) {
		return domain.BuiltTemplate{}, domain.EmailContext{}, err
	}
	if quote.ProjectID != nil {
		if in.Project, err = s.repo.FindProject(ctx, s.db, *quote.ProjectID); err != nil && !errors.Is(err, crmdomain.ErrNotFound) {
			return domain.BuiltTemplate{}, domain.EmailContext{}, err
		}
		if in.Services, err = s.repo.ListServicesByProject(ctx, s.db, *quote.ProjectID); err != nil {
			return domain.BuiltTemplate{}, domain.EmailContext{}, err
		}
	}
	if in.Payments, err = s.repo.ListPaymentsByQuote(ctx, s.db, quote.ID); err != nil {
		return domain.BuiltTemplate{}, domain.EmailContext{}, err
	}

	if strings.TrimSpace(status) == "" {
		status = string(quote.Status)
	}

	emailCtx := template.BuildContext(in)
	built, err := template.BuildTemplate(domain.TemplateInput{
		Status:        status,
		Context:       emailCtx,
		CustomMessage: customMessage,
		Semantic:      s.semantic,
	})
	if err != nil {
		s.log.Error("failed to render quote email", zap.String("quote_id", quote.ID), zap.Error(err))
		return domain.BuiltTemplate{}, domain.EmailContext{}, err
	}
	return built, emailCtx, nil
}
