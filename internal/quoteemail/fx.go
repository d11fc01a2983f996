package quoteemail

import (
	"github.com/smallbiznis/gestionale/internal/quoteemail/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quoteemail.service",
	fx.Provide(service.New),
)
