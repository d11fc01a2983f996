package registry

import (
	"github.com/smallbiznis/gestionale/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("registry",
	fx.Provide(DefaultSemantic),
	fx.Provide(func(cfg config.Config) CapabilityRegistry {
		return DefaultCapability(cfg.Business.RoutePrefix)
	}),
)
