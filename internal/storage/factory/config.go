package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/es"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/jsonfile"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/pg"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/sqlite"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/stringsutil"
)

type StorageConfig struct {
	storage.Type
	JSONPath   string
	SQLitePath string
	Pg         *pg.PoolConfig
	Es         *es.ClientConfig
}

// LoadEnv reads the audit storage selection. AUDIT_STORAGE_TYPE defaults to
// the JSON file store.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(strings.TrimSpace(os.Getenv("AUDIT_STORAGE_TYPE")))
	if storageType == "" {
		storageType = storage.JSON
	}
	if !supported(storageType) {
		slog.Error("Invalid AUDIT_STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid AUDIT_STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types())
	}

	cfg := &StorageConfig{
		Type:       storageType,
		JSONPath:   envOr("AUDIT_LOG_PATH", jsonfile.DefaultPath),
		SQLitePath: envOr("SQLITE_PATH", sqlite.DefaultPath),
	}

	switch storageType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses: stringsutil.SplitTrim(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: envOr("ES_INDEX_NAME", es.DefaultIndexName),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses are missing")
		}
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	return cfg, nil
}

func supported(t storage.Type) bool {
	for _, s := range storage.Types() {
		if s == t {
			return true
		}
	}
	return false
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
