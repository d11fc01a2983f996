package invoiceimport

import (
	"github.com/smallbiznis/gestionale/internal/invoiceimport/repository"
	"github.com/smallbiznis/gestionale/internal/invoiceimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoiceimport.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
