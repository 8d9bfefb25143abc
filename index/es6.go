package index

// https://github.com/olivere/elastic/wiki

import (
	"context"
	"errors"
	"fmt"
	es "gopkg.in/olivere/elastic.v6"
	"time"
)

// type ES6Writer implements the `Writer` interface for Elasticsearch 6.x clusters, where
// datasets are stored with an explicit mapping type, using the olivere/elastic client.
type ES6Writer struct {
	client   *es.Client
	index    string
	doc_type string
}

var _ Writer = (*ES6Writer)(nil)

func NewES6Writer(es_endpoint string, es_index string, doc_type string) (*ES6Writer, error) {

	retrier := es.NewBackoffRetrier(es.NewExponentialBackoff(100*time.Millisecond, 10*time.Second))

	// No sniffing or health checks, the endpoint may be a proxy.

	client, err := es.NewClient(
		es.SetURL(es_endpoint),
		es.SetSniff(false),
		es.SetHealthcheck(false),
		es.SetRetrier(retrier),
	)

	if err != nil {
		return nil, fmt.Errorf("Failed to create ES6 client, %w", err)
	}

	if doc_type == "" {
		doc_type = DEFAULT_DOCUMENT_TYPE
	}

	w := &ES6Writer{
		client:   client,
		index:    es_index,
		doc_type: doc_type,
	}

	return w, nil
}

func (w *ES6Writer) IndexDocument(ctx context.Context, body []byte) (string, error) {

	// Ugh... method chaining

	rsp, err := w.client.Index().
		Index(w.index).
		Type(w.doc_type).
		BodyString(string(body)).
		Refresh("true").
		Do(ctx)

	if err != nil {
		return "", fmt.Errorf("Failed to index document, %w", err)
	}

	if rsp.Id == "" {
		return "", errors.New("Index response is missing _id")
	}

	if rsp.Shards == nil || rsp.Shards.Successful < 1 {
		return "", fmt.Errorf("Document %s was not written to any shards", rsp.Id)
	}

	return rsp.Id, nil
}

func (w *ES6Writer) DeleteDocument(ctx context.Context, id string) error {

	_, err := w.client.Delete().
		Index(w.index).
		Type(w.doc_type).
		Id(id).
		Refresh("true").
		Do(ctx)

	if es.IsNotFound(err) {
		return fmt.Errorf("Failed to delete document %s, %w", id, ErrNotFound)
	}

	if err != nil {
		return fmt.Errorf("Failed to delete document %s, %w", id, err)
	}

	return nil
}
