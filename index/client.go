// package index provides methods for writing assembled dataset documents to Elasticsearch.
package index

import (
	"github.com/cenkalti/backoff/v4"
	es "github.com/elastic/go-elasticsearch/v7"
	"os"
	"time"
)

// NewClient returns a go-elasticsearch client for 'es_endpoint' that retries transient
// failures (502, 503, 504 and 429 responses) with exponential backoff.
func NewClient(es_endpoint string) (*es.Client, error) {

	retry := backoff.NewExponentialBackOff()

	es_cfg := es.Config{
		Addresses: []string{es_endpoint},

		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retry.Reset()
			}
			return retry.NextBackOff()
		},
		MaxRetries: 5,
	}

	return es.NewClient(es_cfg)
}

// EnvOrDefault returns the value of the environment variable 'k', or 'default_value' if it is unset or empty.
func EnvOrDefault(k string, default_value string) string {

	v, ok := os.LookupEnv(k)

	if !ok || v == "" {
		return default_value
	}

	return v
}
