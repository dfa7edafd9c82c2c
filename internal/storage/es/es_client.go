package es

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	DefaultIndexName  = "mcqa-filtered-questions"
	defaultMaxRetries = 3
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func (c ClientConfig) index() string {
	if c.IndexName == "" {
		return DefaultIndexName
	}
	return c.IndexName
}

// newClient builds a typed client that retries throttled and unavailable
// responses, which a single node cluster returns while it warms up.
func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, errors.New("no elasticsearch addresses configured")
	}

	cfg := elasticsearch.Config{
		Addresses:     config.Addresses,
		MaxRetries:    defaultMaxRetries,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
	if config.Username != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
