package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	es "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/tidwall/gjson"
	"io"
)

// The default Elasticsearch document type for datasets.
const DEFAULT_DOCUMENT_TYPE string = "dataset"

var ErrNotFound = errors.New("Document not found")

// type Writer is the interface for indexing and deleting dataset documents.
type Writer interface {
	// IndexDocument indexes 'body' as a new document and returns the identifier Elasticsearch assigned it.
	IndexDocument(context.Context, []byte) (string, error)
	// DeleteDocument removes the document with the given identifier.
	DeleteDocument(context.Context, string) error
}

// type ESWriter implements the `Writer` interface using the go-elasticsearch client.
type ESWriter struct {
	client   *es.Client
	index    string
	doc_type string
}

var _ Writer = (*ESWriter)(nil)

func NewESWriter(client *es.Client, es_index string, doc_type string) *ESWriter {

	w := &ESWriter{
		client:   client,
		index:    es_index,
		doc_type: doc_type,
	}

	return w
}

func (w *ESWriter) IndexDocument(ctx context.Context, body []byte) (string, error) {

	req := esapi.IndexRequest{
		Index:        w.index,
		DocumentType: w.doc_type,
		Body:         bytes.NewReader(body),
		Refresh:      "true",
	}

	rsp, err := req.Do(ctx, w.client)

	if err != nil {
		return "", fmt.Errorf("Failed to index document, %w", err)
	}

	defer rsp.Body.Close()

	rsp_body, err := io.ReadAll(rsp.Body)

	if err != nil {
		return "", fmt.Errorf("Failed to read index response, %w", err)
	}

	if rsp.IsError() {
		return "", fmt.Errorf("Failed to index document, %s: %s", rsp.Status(), ErrorReason(rsp_body))
	}

	return parseIndexResponse(rsp_body)
}

func (w *ESWriter) DeleteDocument(ctx context.Context, id string) error {

	req := esapi.DeleteRequest{
		Index:        w.index,
		DocumentType: w.doc_type,
		DocumentID:   id,
		Refresh:      "true",
	}

	rsp, err := req.Do(ctx, w.client)

	if err != nil {
		return fmt.Errorf("Failed to delete document %s, %w", id, err)
	}

	defer rsp.Body.Close()

	if rsp.StatusCode == 404 {
		return fmt.Errorf("Failed to delete document %s, %w", id, ErrNotFound)
	}

	if rsp.IsError() {

		rsp_body, _ := io.ReadAll(rsp.Body)
		return fmt.Errorf("Failed to delete document %s, %s: %s", id, rsp.Status(), ErrorReason(rsp_body))
	}

	return nil
}

// parseIndexResponse returns the "_id" of an index response, provided at least one shard
// reported a successful write.
func parseIndexResponse(body []byte) (string, error) {

	id_rsp := gjson.GetBytes(body, "_id")

	if !id_rsp.Exists() || id_rsp.String() == "" {
		return "", errors.New("Index response is missing _id")
	}

	successful := gjson.GetBytes(body, "_shards.successful").Int()

	if successful < 1 {
		return "", fmt.Errorf("Document %s was not written to any shards", id_rsp.String())
	}

	return id_rsp.String(), nil
}

// ErrorReason returns the "error.reason" of an Elasticsearch error response, or the whole body if it has none.
func ErrorReason(body []byte) string {

	reason_rsp := gjson.GetBytes(body, "error.reason")

	if reason_rsp.Exists() {
		return reason_rsp.String()
	}

	return string(body)
}
