package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/highlighter/internal/server/config"
)

// Open builds the backend selected by cfg.StoreBackend. The returned close
// function releases backend resources and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.StoreBackendFile, "":
		return NewFileStore(cfg.StorePath), noop, nil

	case config.StoreBackendPostgres:
		db, err := OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, err
		}
		pg := NewPostgresStore(db)
		if err := pg.RunMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return pg, db.Close, nil

	case config.StoreBackendS3:
		st, err := OpenS3(ctx, S3Options{
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			Key:          cfg.S3ObjectKey,
		})
		if err != nil {
			return nil, noop, err
		}
		return st, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
