// dsloader assembles a dataset document from a dataset.json (or dataset.yaml) file and the optional
// supporting files stored in the same directory, and indexes it in Elasticsearch. If a supporting file
// is present it overrides the corresponding section of the source document.
//
//	dsloader [options] path/to/dataset.json
package main

import (
	"context"
	"fmt"
	"github.com/openskope/go-skope-elasticsearch/loader"
	"github.com/sfomuseum/go-flags/flagset"
	"log"
)

func main() {

	ctx := context.Background()

	fs, err := loader.NewLoaderFlagSet(ctx)

	if err != nil {
		log.Fatalf("Failed to create new flagset, %v", err)
	}

	flagset.Parse(fs)

	id, err := loader.RunLoaderWithFlagSet(ctx, fs)

	if err != nil {
		log.Fatalf("Failed to load dataset, %v", err)
	}

	if id != "" {
		fmt.Println(id)
	}
}
