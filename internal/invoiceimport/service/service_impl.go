package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/gestionale/internal/clock"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/validation"
	obsmetrics "github.com/smallbiznis/gestionale/internal/observability/metrics"
	"github.com/smallbiznis/gestionale/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	CRM     crmdomain.Repository
	Repo    domain.Repository
	Limiter *ratelimit.Limiter  `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	crm     crmdomain.Repository
	repo    domain.Repository
	limiter *ratelimit.Limiter
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoiceimport.service"),
		clock:   p.Clock,
		crm:     p.CRM,
		repo:    p.Repo,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

// Validate reports, without writing anything, which draft records could be
// confirmed against the current workspace.
func (s *Service) Validate(ctx context.Context, raw any) (domain.ValidateResult, error) {
	payload, err := validation.ValidatePayload(raw)
	if err != nil {
		return domain.ValidateResult{}, err
	}

	ws, err := s.crm.LoadWorkspace(ctx, s.db)
	if err != nil {
		s.log.Error("failed to load workspace", zap.Error(err))
		return domain.ValidateResult{}, err
	}

	reports := make([]domain.RecordReport, 0, len(payload.Draft.Records))
	for _, rec := range payload.Draft.Records {
		missing := validation.ValidationErrors(rec, &ws)
		report := domain.RecordReport{
			ID:          rec.ID,
			Resource:    rec.Resource,
			Missing:     missing,
			Confirmable: len(missing) == 0,
		}
		if rec.Resource == domain.ResourcePayments {
			report.PaymentDate = validation.PaymentDate(rec)
		}
		reports = append(reports, report)
	}
	return domain.ValidateResult{Records: reports}, nil
}

// Confirm persists every draft record in one transaction. The first record
// that is not confirmable or already present aborts the whole batch.
func (s *Service) Confirm(ctx context.Context, raw any) (domain.ConfirmResult, error) {
	payload, err := validation.ValidatePayload(raw)
	if err != nil {
		s.metrics.RecordImportRejected(ctx, "invalid_payload")
		return domain.ConfirmResult{}, err
	}

	lease, err := s.limiter.AcquireConfirm(ctx)
	switch {
	case errors.Is(err, ratelimit.ErrLockHeld):
		s.metrics.RecordImportRejected(ctx, "in_progress")
		return domain.ConfirmResult{}, &domain.ConfirmError{
			Kind:    domain.ErrConfirmInProgress,
			Message: domain.MessageInProgress,
		}
	case err != nil:
		// Redis trouble must not block imports; the transaction still guards.
		s.log.Warn("confirm lock unavailable", zap.Error(err))
	default:
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release confirm lock", zap.Error(err))
			}
		}()
	}

	var created []domain.CreatedRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ws, err := s.crm.LoadWorkspace(ctx, tx)
		if err != nil {
			return err
		}

		for _, rec := range payload.Draft.Records {
			if missing := validation.ValidationErrors(rec, &ws); len(missing) > 0 {
				return domain.NewNotConfirmableError(rec, missing)
			}
		}

		created = make([]domain.CreatedRecord, 0, len(payload.Draft.Records))
		for _, rec := range payload.Draft.Records {
			item, err := s.confirmRecord(ctx, tx, rec, payload.Draft.Model)
			if err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, err)
		return domain.ConfirmResult{}, err
	}

	for _, item := range created {
		s.metrics.RecordImportRecord(ctx, string(item.Resource))
	}
	s.log.Info("invoice import confirmed",
		zap.Int("records", len(created)),
		zap.String("model", payload.Draft.Model),
	)
	return domain.ConfirmResult{Created: created}, nil
}

func (s *Service) confirmRecord(ctx context.Context, tx *gorm.DB, rec domain.Record, model string) (domain.CreatedRecord, error) {
	now := s.clock.Now().UTC()
	notes := validation.BuildNotes(rec, model)

	if rec.Resource == domain.ResourcePayments {
		method := string(rec.PaymentMethod)
		payment := crmdomain.Payment{
			ID:            uuid.NewString(),
			ClientID:      *rec.ClientID,
			ProjectID:     rec.ProjectID,
			PaymentDate:   toDay(validation.PaymentDate(rec)),
			PaymentType:   rec.PaymentType,
			PaymentMethod: &method,
			Amount:        *rec.Amount,
			Status:        rec.PaymentStatus,
			InvoiceRef:    rec.InvoiceRef,
			Notes:         &notes,
			CreatedAt:     &now,
		}

		dup, err := s.repo.FindDuplicatePayment(ctx, tx, payment)
		if err != nil {
			return domain.CreatedRecord{}, err
		}
		if dup != nil {
			return domain.CreatedRecord{}, domain.NewDuplicateError(rec)
		}
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return domain.CreatedRecord{}, s.insertError(rec, err)
		}
		return domain.CreatedRecord{
			Resource:   domain.ResourcePayments,
			ID:         payment.ID,
			InvoiceRef: payment.InvoiceRef,
			Amount:     rec.Amount,
		}, nil
	}

	expense := crmdomain.Expense{
		ID:          uuid.NewString(),
		ClientID:    rec.ClientID,
		ProjectID:   rec.ProjectID,
		ExpenseDate: toDay(rec.DocumentDate),
		ExpenseType: rec.ExpenseType,
		Amount:      rec.Amount,
		Description: description(rec),
		InvoiceRef:  rec.InvoiceRef,
		Notes:       &notes,
		CreatedAt:   &now,
	}

	dup, err := s.repo.FindDuplicateExpense(ctx, tx, expense)
	if err != nil {
		return domain.CreatedRecord{}, err
	}
	if dup != nil {
		return domain.CreatedRecord{}, domain.NewDuplicateError(rec)
	}
	if err := s.repo.InsertExpense(ctx, tx, &expense); err != nil {
		return domain.CreatedRecord{}, s.insertError(rec, err)
	}
	return domain.CreatedRecord{
		Resource:   domain.ResourceExpenses,
		ID:         expense.ID,
		InvoiceRef: expense.InvoiceRef,
		Amount:     rec.Amount,
	}, nil
}

func (s *Service) insertError(rec domain.Record, err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.NewDuplicateError(rec)
	}
	return err
}

func (s *Service) recordFailure(ctx context.Context, err error) {
	var confirmErr *domain.ConfirmError
	if !errors.As(err, &confirmErr) {
		s.log.Error("invoice import confirm failed", zap.Error(err))
		s.metrics.RecordImportRejected(ctx, "internal")
		return
	}

	reason := "not_confirmable"
	if errors.Is(err, domain.ErrDuplicate) {
		reason = "duplicate"
	}
	s.metrics.RecordImportRejected(ctx, reason)
	s.log.Info("invoice import rejected",
		zap.String("reason", reason),
		zap.String("record_id", confirmErr.RecordID),
		zap.Strings("missing", confirmErr.Missing),
	)
}

// description falls back to the counterparty so expense lists stay readable.
func description(rec domain.Record) *string {
	if rec.Description != nil {
		return rec.Description
	}
	return rec.CounterpartyName
}

func toDay(v *string) *time.Time {
	if v == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
