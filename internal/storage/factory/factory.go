package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/es"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/jsonfile"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/pg"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/sqlite"
)

// NewAuditStore creates the storage.AuditStore selected by cfg.
func NewAuditStore(ctx context.Context, cfg StorageConfig) (storage.AuditStore, error) {
	switch cfg.Type {
	case storage.JSON, "":
		return jsonfile.NewStorer(cfg.JSONPath), nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		s, err := pg.NewStorer(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		indexer, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return indexer, nil

	case storage.SQLite:
		s, err := sqlite.NewStorer(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
