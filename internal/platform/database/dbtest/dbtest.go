// Package dbtest starts a disposable PostgreSQL for integration tests.
package dbtest

import (
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mauriantolin/tu-carrera/internal/platform/database"
)

// Image is the PostgreSQL image used by integration tests.
const Image = "postgres:16-alpine"

// New starts a PostgreSQL container, applies schemas and returns a connected
// DB. The test is skipped in short mode or when no container runtime is
// available.
func New(t *testing.T, schemas ...string) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	ctr, err := tcpostgres.Run(ctx, Image,
		tcpostgres.WithDatabase("planner"),
		tcpostgres.WithUsername("planner"),
		tcpostgres.WithPassword("planner"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := database.New(ctx, dsn, 5, 1)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx, schemas...); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}
