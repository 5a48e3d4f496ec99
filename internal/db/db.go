package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rx-line/internal/config"
)

const prescriptionsSchema = `
	CREATE TABLE IF NOT EXISTS prescriptions (
		id                     BIGSERIAL PRIMARY KEY,
		user_name              TEXT NOT NULL,
		user_id                TEXT NOT NULL,
		prescription_image_url TEXT NOT NULL,
		online_guidance_time   TEXT NOT NULL,
		medicine_delivery_time TEXT NOT NULL,
		prescription_checked   BOOLEAN NOT NULL DEFAULT false,
		guidance_executed      BOOLEAN NOT NULL DEFAULT false,
		delivery_executed      BOOLEAN NOT NULL DEFAULT false,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// El tráfico de escritura es bajo: una fila por flujo completado.
	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// EnsureSchema crea la tabla de recetas si todavía no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, prescriptionsSchema)
	return err
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
