package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/gestionale/internal/crm/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LoadCollections(ctx context.Context, db *gorm.DB) (domain.Collections, error) {
	var out domain.Collections
	tx := db.WithContext(ctx)

	if err := tx.Order("created_at desc, id").Find(&out.Clients).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("created_at desc, id").Find(&out.Contacts).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("created_at desc, id").Find(&out.Quotes).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("created_at desc, id").Find(&out.Projects).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("created_at, id").Find(&out.ProjectContacts).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("service_date desc, id").Find(&out.Services).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("payment_date desc, id").Find(&out.Payments).Error; err != nil {
		return domain.Collections{}, err
	}
	if err := tx.Order("expense_date desc, id").Find(&out.Expenses).Error; err != nil {
		return domain.Collections{}, err
	}
	return out, nil
}

func (r *repo) LoadWorkspace(ctx context.Context, db *gorm.DB) (domain.Workspace, error) {
	var ws domain.Workspace
	if err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Order("id").
		Pluck("id", &ws.ClientIDs).Error; err != nil {
		return domain.Workspace{}, err
	}

	err := db.WithContext(ctx).Raw(
		`SELECT id, client_id FROM projects ORDER BY id`,
	).Scan(&ws.Projects).Error
	if err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

func (r *repo) FindQuote(ctx context.Context, db *gorm.DB, id string) (*domain.Quote, error) {
	var quote domain.Quote
	if err := first(ctx, db, id, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repo) FindClient(ctx context.Context, db *gorm.DB, id string) (*domain.Client, error) {
	var client domain.Client
	if err := first(ctx, db, id, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repo) FindProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var project domain.Project
	if err := first(ctx, db, id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repo) ListPaymentsByQuote(ctx context.Context, db *gorm.DB, quoteID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("payment_date desc, id").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListServicesByProject(ctx context.Context, db *gorm.DB, projectID string) ([]domain.Service, error) {
	var services []domain.Service
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("service_date, id").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

// first loads one row by id, mapping a missing row to domain.ErrNotFound.
func first(ctx context.Context, db *gorm.DB, id string, dest any) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	err := db.WithContext(ctx).Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
