package crm

import (
	"github.com/smallbiznis/gestionale/internal/crm/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("crm.repository",
	fx.Provide(repository.Provide),
)
