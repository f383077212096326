// Package database opens the configured product store.
package database

import (
	"context"
	"fmt"

	"perkakas/internal/config"
	"perkakas/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is a product repository together with its diagnostics.
type Store interface {
	repositories.ProductRepository
	repositories.StoreInspector
}

// Open connects to the store selected by cfg.StoreDriver and prepares its
// indexes. The returned close function releases the connection.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DatabaseURL), logger)
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.SQLiteDSN()), logger)
	case config.DriverMemory:
		logger.Warn("using in-memory product store, data is lost on restart")
		return repositories.NewMockProductRepository(), func(context.Context) error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func openMongo(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func(context.Context) error, error) {
	opts := options.Client().ApplyURI(cfg.DatabaseURL)
	if cfg.StoreTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.StoreTimeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	repo := repositories.NewMongoProductRepository(client.Database(cfg.DatabaseName))
	if err := repo.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	logger.Info("connected to mongo", zap.String("database", cfg.DatabaseName))
	return repo, client.Disconnect, nil
}

func openGORM(dialector gorm.Dialector, logger *zap.Logger) (Store, func(context.Context) error, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := repositories.NewGORMProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, nil, err
	}

	closeFn := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	logger.Info("connected to relational store", zap.String("dialect", dialector.Name()))
	return repo, closeFn, nil
}
