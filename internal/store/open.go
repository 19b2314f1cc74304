package store

import (
	"context"

	"Loadline/internal/config"
)

// Open builds the configured store. The returned close func releases any
// database handle and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, func() error, error) {
	if cfg.Driver == "file" || cfg.Driver == "" {
		fs, err := NewFileStore(cfg.Path, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	}

	db, err := OpenDB(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	s := NewSQLStore(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}
