package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itemhub/item-service/internal/db"
)

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/items?sslmode=disable", "pgx5://u:p@localhost:5432/items?sslmode=disable"},
		{"postgresql://u:p@db/items", "pgx5://u:p@db/items"},
		{"pgx5://u:p@db/items", "pgx5://u:p@db/items"},
		{"u:p@db/items", "pgx5://u:p@db/items"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, db.MigrationURL(tc.in), tc.in)
	}
}
