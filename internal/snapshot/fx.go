package snapshot

import (
	"github.com/smallbiznis/gestionale/internal/snapshot/service"
	"go.uber.org/fx"
)

var Module = fx.Module("snapshot.service",
	fx.Provide(service.New),
)
