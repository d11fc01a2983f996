package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	LoadCollections(ctx context.Context, db *gorm.DB) (Collections, error)
	LoadWorkspace(ctx context.Context, db *gorm.DB) (Workspace, error)
	FindQuote(ctx context.Context, db *gorm.DB, id string) (*Quote, error)
	FindClient(ctx context.Context, db *gorm.DB, id string) (*Client, error)
	FindProject(ctx context.Context, db *gorm.DB, id string) (*Project, error)
	ListPaymentsByQuote(ctx context.Context, db *gorm.DB, quoteID string) ([]Payment, error)
	ListServicesByProject(ctx context.Context, db *gorm.DB, projectID string) ([]Service, error)
}
