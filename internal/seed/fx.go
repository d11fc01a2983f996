package seed

import (
	"context"

	"github.com/smallbiznis/gestionale/internal/clock"
	"github.com/smallbiznis/gestionale/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, cfg config.Config, clk clock.Clock, log *zap.Logger) {
		if !cfg.DBSeedDemo || cfg.IsProduction() {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				log.Named("seed").Info("ensuring demo workspace")
				return EnsureDemoWorkspace(ctx, conn, clk.Now())
			},
		})
	}),
)
