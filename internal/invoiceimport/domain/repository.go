package domain

import (
	"context"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"gorm.io/gorm"
)

type Repository interface {
	FindDuplicatePayment(ctx context.Context, db *gorm.DB, p crmdomain.Payment) (*crmdomain.Payment, error)
	FindDuplicateExpense(ctx context.Context, db *gorm.DB, e crmdomain.Expense) (*crmdomain.Expense, error)
	InsertPayment(ctx context.Context, db *gorm.DB, p *crmdomain.Payment) error
	InsertExpense(ctx context.Context, db *gorm.DB, e *crmdomain.Expense) error
}
