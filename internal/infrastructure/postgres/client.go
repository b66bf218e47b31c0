package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/internal/config"
)

// LazyPool defers pgx pool creation until the first repository call needs
// it. A successful connect is reused for the process lifetime; a failed
// attempt leaves the pool unset so the next call retries.
type LazyPool struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewLazyPool wraps the configuration without touching the network.
func NewLazyPool(cfg config.DatabaseConfig, logger *zap.Logger) *LazyPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LazyPool{cfg: cfg, logger: logger}
}

// Acquire returns the shared pool, establishing it on first use.
func (p *LazyPool) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		return p.pool, nil
	}

	pool, err := connect(ctx, p.cfg, p.logger)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p.pool, nil
}

// Close releases the pool if it was ever established.
func (p *LazyPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

// Ping reports whether the database answers, connecting first if needed.
func (p *LazyPool) Ping(ctx context.Context) error {
	pool, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	connString := cfg.URL
	if connString == "" {
		connString = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
			cfg.SSLMode,
		)
	}

	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pgxCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pgxCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pgxCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return pool, nil
}
