package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/sqlstore"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// stores adaptadores de persistencia según DB_DRIVER.
type stores struct {
	items    repository.ItemRepository
	history  repository.StockHistoryRepository
	users    repository.UserRepository
	txRunner inventory.TxRunner
	ping     func(ctx context.Context) error
	close    func()
}

// openStores conecta al almacén configurado y aplica las migraciones si DB_AUTO_MIGRATE=true.
func openStores(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	if cfg.Driver == config.DriverPostgres {
		return openPostgres(ctx, cfg, log)
	}
	return openSQL(ctx, cfg, log)
}

func openPostgres(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones PostgreSQL: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &stores{
		items:    postgres.NewItemRepository(pool),
		history:  postgres.NewStockHistoryRepository(pool),
		users:    postgres.NewUserRepository(pool),
		txRunner: postgres.NewTxRunner(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

func openSQL(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	db, err := sqlstore.Open(ctx, cfg.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("conexión a %s: %w", cfg.Driver, err)
	}
	if cfg.AutoMigrate {
		applied, err := sqlstore.Migrate(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migraciones %s: %w", cfg.Driver, err)
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &stores{
		items:    sqlstore.NewItemRepository(db.SQL(), db.Dialect()),
		history:  sqlstore.NewStockHistoryRepository(db.SQL()),
		users:    sqlstore.NewUserRepository(db.SQL()),
		txRunner: sqlstore.NewTxRunner(db),
		ping:     db.Ping,
		close:    func() { _ = db.Close() },
	}, nil
}
