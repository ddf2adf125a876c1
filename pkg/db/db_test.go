package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestMigrationsURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://db/kennel", "postgres://db/kennel?x-migrations-table=kennel_schema_migrations"},
		{"postgres://db/kennel?sslmode=disable", "postgres://db/kennel?sslmode=disable&x-migrations-table=kennel_schema_migrations"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MigrationsURL(tt.in))
	}
}
