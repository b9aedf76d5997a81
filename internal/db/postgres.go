package db

import (
	"context"
	"fmt"
	"time"

	"giventake/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const applicationName = "giventake"

// Connect opens a pool sized from config, scoped to the app schema, and
// logs slow or failing queries through logger.
func Connect(ctx context.Context, config *types.Config, logger logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	runtime := poolConfig.ConnConfig.RuntimeParams
	if _, ok := runtime["search_path"]; !ok {
		runtime["search_path"] = config.DatabaseSchema
	}
	if _, ok := runtime["application_name"]; !ok {
		runtime["application_name"] = applicationName
	}
	if config.DatabaseStatementTimeoutMS > 0 {
		runtime["statement_timeout"] = fmt.Sprintf("%d", config.DatabaseStatementTimeoutMS)
	}

	if config.DatabaseMaxConns > 0 {
		poolConfig.MaxConns = config.DatabaseMaxConns
	}
	poolConfig.MinConns = config.DatabaseMinConns
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	poolConfig.ConnConfig.Tracer = &QueryTracer{
		Logger:    logger,
		Threshold: time.Duration(config.SlowQueryMS) * time.Millisecond,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"schema":    runtime["search_path"],
		"max_conns": poolConfig.MaxConns,
	}).Info("database pool ready")

	return pool, nil
}
