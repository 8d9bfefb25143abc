// package document provides methods for assembling a single SKOPE dataset document for indexing in Elasticsearch.
package document

import (
	"context"
	"fmt"
)

// type PrepareDocumentFunc is a common method signature for updating a dataset document before indexing in Elasticsearch.
type PrepareDocumentFunc func(context.Context, []byte) ([]byte, error)

// Prepare applies 'funcs' to 'body' in order, each function receiving the output of the previous one.
func Prepare(ctx context.Context, body []byte, funcs ...PrepareDocumentFunc) ([]byte, error) {

	for i, f := range funcs {

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			// pass
		}

		new_body, err := f(ctx, body)

		if err != nil {
			return nil, fmt.Errorf("Failed to prepare document (step %d), %w", i, err)
		}

		body = new_body
	}

	return body, nil
}
