package seed

import (
	"context"
	"testing"
	"time"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/migration"
	"github.com/smallbiznis/gestionale/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDemoWorkspaceIsIdempotent(t *testing.T) {
	conn, err := db.NewTest("seed_demo", migration.Models()...)
	require.NoError(t, err)

	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, EnsureDemoWorkspace(context.Background(), conn, now))
	require.NoError(t, EnsureDemoWorkspace(context.Background(), conn, now.Add(time.Hour)))

	var clients, payments int64
	require.NoError(t, conn.Model(&crmdomain.Client{}).Count(&clients).Error)
	require.NoError(t, conn.Model(&crmdomain.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), clients)
	assert.Equal(t, int64(2), payments)
}

func TestEnsureDemoWorkspaceRequiresDB(t *testing.T) {
	assert.Error(t, EnsureDemoWorkspace(context.Background(), nil, time.Now()))
}
