package service

import (
	"context"
	"time"

	"github.com/smallbiznis/gestionale/internal/clock"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	obsmetrics "github.com/smallbiznis/gestionale/internal/observability/metrics"
	"github.com/smallbiznis/gestionale/internal/registry"
	"github.com/smallbiznis/gestionale/internal/snapshot/builder"
	"github.com/smallbiznis/gestionale/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Repo       crmdomain.Repository
	Semantic   registry.SemanticRegistry
	Capability registry.CapabilityRegistry
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	repo       crmdomain.Repository
	semantic   registry.SemanticRegistry
	capability registry.CapabilityRegistry
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("snapshot.service"),
		clock:      p.Clock,
		repo:       p.Repo,
		semantic:   p.Semantic,
		capability: p.Capability,
		metrics:    p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context) (domain.UnifiedCrmReadContext, error) {
	start := time.Now()

	collections, err := s.repo.LoadCollections(ctx, s.db)
	if err != nil {
		s.log.Error("failed to load crm collections", zap.Error(err))
		return domain.UnifiedCrmReadContext{}, err
	}

	out := builder.BuildUnifiedCrmReadContext(collections, s.semantic, s.capability, s.clock.Now())

	elapsed := time.Since(start)
	s.metrics.RecordSnapshotBuild(ctx, elapsed)
	s.log.Debug("snapshot built",
		zap.Int("clients", out.Snapshot.Counts.Clients),
		zap.Int("open_quotes", out.Snapshot.Counts.OpenQuotes),
		zap.Int("pending_payments", out.Snapshot.Counts.PendingPayments),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}
