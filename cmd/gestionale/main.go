package main

import (
	"github.com/smallbiznis/gestionale/internal/clock"
	"github.com/smallbiznis/gestionale/internal/config"
	"github.com/smallbiznis/gestionale/internal/migration"
	"github.com/smallbiznis/gestionale/internal/observability"
	"github.com/smallbiznis/gestionale/internal/seed"
	"github.com/smallbiznis/gestionale/internal/server"
	"github.com/smallbiznis/gestionale/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}
