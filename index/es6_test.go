package index

import (
	"context"
	"errors"
	"testing"
)

func TestES6Writer(t *testing.T) {

	ctx := context.Background()

	setups := []*ServerSetup{
		{Method: "POST", Path: "/datasets/dataset", Response: test_index_response, HTTPStatus: 201},
		{Method: "DELETE", Path: "/datasets/dataset/AXk1", Response: `{"_index":"datasets","_type":"dataset","_id":"AXk1","result":"deleted","_shards":{"total":2,"successful":1,"failed":0}}`},
		{Method: "DELETE", Path: "/datasets/dataset/missing", Response: `{"_index":"datasets","_type":"dataset","_id":"missing","result":"not_found","_shards":{"total":2,"successful":1,"failed":0}}`, HTTPStatus: 404},
	}

	ts := buildTestServer(t, setups)
	defer ts.Close()

	w, err := NewES6Writer(ts.URL, "datasets", "")

	if err != nil {
		t.Fatalf("Failed to create writer, %v", err)
	}

	id, err := w.IndexDocument(ctx, []byte(`{"title":"x"}`))

	if err != nil {
		t.Fatalf("Failed to index document, %v", err)
	}

	if id != "AXk1" {
		t.Fatalf("Unexpected id %s", id)
	}

	err = w.DeleteDocument(ctx, id)

	if err != nil {
		t.Fatalf("Failed to delete document, %v", err)
	}

	err = w.DeleteDocument(ctx, "missing")

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
