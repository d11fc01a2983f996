package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: payments.id"), true},
		{"mysql", errors.New("Error 1062: Duplicate entry"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyErr(tc.err))
		})
	}
}

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func TestNewTestMigratesModels(t *testing.T) {
	conn, err := NewTest(t.Name(), &widget{})
	assert.NoError(t, err)

	assert.NoError(t, conn.Create(&widget{ID: "w-1", Name: "a"}).Error)
	err = conn.Create(&widget{ID: "w-1", Name: "b"}).Error
	assert.True(t, IsDuplicateKeyErr(err))
}
