package repository

import (
	"context"
	"errors"
	"time"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindDuplicatePayment(ctx context.Context, conn *gorm.DB, p crmdomain.Payment) (*crmdomain.Payment, error) {
	q := conn.WithContext(ctx).
		Model(&crmdomain.Payment{}).
		Where("client_id = ?", p.ClientID).
		Where("amount = ?", p.Amount).
		Where("status = ?", p.Status).
		Where("payment_type = ?", p.PaymentType)
	q = whereTime(q, "payment_date", p.PaymentDate)
	q = whereString(q, "project_id", p.ProjectID)
	q = whereString(q, "invoice_ref", p.InvoiceRef)

	var existing crmdomain.Payment
	if err := q.Order("id").Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

func (r *repo) FindDuplicateExpense(ctx context.Context, conn *gorm.DB, e crmdomain.Expense) (*crmdomain.Expense, error) {
	q := conn.WithContext(ctx).
		Model(&crmdomain.Expense{}).
		Where("expense_type = ?", e.ExpenseType)
	q = whereTime(q, "expense_date", e.ExpenseDate)
	q = whereFloat(q, "amount", e.Amount)
	q = whereString(q, "client_id", e.ClientID)
	q = whereString(q, "project_id", e.ProjectID)
	q = whereString(q, "invoice_ref", e.InvoiceRef)

	var existing crmdomain.Expense
	if err := q.Order("id").Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

func (r *repo) InsertPayment(ctx context.Context, conn *gorm.DB, p *crmdomain.Payment) error {
	return translateInsert(conn.WithContext(ctx).Create(p).Error)
}

func (r *repo) InsertExpense(ctx context.Context, conn *gorm.DB, e *crmdomain.Expense) error {
	return translateInsert(conn.WithContext(ctx).Create(e).Error)
}

func translateInsert(err error) error {
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicate
	}
	return err
}

func whereString(q *gorm.DB, column string, v *string) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

func whereFloat(q *gorm.DB, column string, v *float64) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

func whereTime(q *gorm.DB, column string, v *time.Time) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", v.UTC())
}
