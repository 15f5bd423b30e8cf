package repository_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/order-service/internal/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("orders"),
		postgres.WithUsername("orders"),
		postgres.WithPassword("orders"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

// startMigratedPool starts postgres, connects a pool and applies the schema.
func startMigratedPool(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, connStr, err := startPostgres(ctx)
	if err != nil {
		return container, nil, fmt.Errorf("startPostgres: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return container, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return container, nil, fmt.Errorf("db.Migrate: %w", err)
	}

	return container, pool, nil
}
