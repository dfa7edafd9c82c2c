package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// Indexer stores audit entries in an Elasticsearch index.
type Indexer struct {
	client       *elasticsearch.TypedClient
	indexName    string
	config       ClientConfig
	indexBuilder *IndexBuilder
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexer := &Indexer{
		client:       client,
		indexName:    config.index(),
		config:       config,
		indexBuilder: NewIndexBuilder(),
	}

	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return indexer, nil
}

func (e *Indexer) SaveBulk(ctx context.Context, entries []storage.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for _, entry := range storage.Prepare(entries, time.Now().UTC()) {
		doc := e.indexBuilder.mapToESDocument(entry)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal audit document", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: doc.ID,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed.Add(1)
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Debug("Audit bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(entries),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d audit entries", n, len(entries))
	}
	return nil
}

// CountRun returns the number of documents stored for runID.
func (e *Indexer) CountRun(ctx context.Context, runID string) (int, error) {
	res, err := e.client.Count().
		Index(e.indexName).
		Q("run_id:" + runID).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit documents: %w", err)
	}
	return int(res.Count), nil
}

func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	settings := e.indexBuilder.buildSettings()
	mappings := e.indexBuilder.buildMapping()

	createRes, err := e.client.Indices.Create(e.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

func (e *Indexer) Close() error {
	return nil
}

// Healthy reports whether the cluster answers a ping.
func (e *Indexer) Healthy(ctx context.Context) bool {
	ok, err := e.client.Ping().Do(ctx)
	if err != nil {
		slog.Warn("Elasticsearch ping failed", "error", err)
		return false
	}
	return ok
}
