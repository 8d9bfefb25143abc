// dsindex creates the Elasticsearch index that datasets are written to, using the mapping in the
// file passed as its only argument, and points an alias at it.
//
//	dsindex [options] path/to/mapping.json
package main

import (
	"context"
	"github.com/openskope/go-skope-elasticsearch/tools"
	"github.com/sfomuseum/go-flags/flagset"
	"log"
)

func main() {

	ctx := context.Background()

	fs, err := tools.NewIndexToolFlagSet(ctx)

	if err != nil {
		log.Fatalf("Failed to create new flagset, %v", err)
	}

	flagset.Parse(fs)

	err = tools.RunIndexToolWithFlagSet(ctx, fs)

	if err != nil {
		log.Fatalf("Failed to create index, %v", err)
	}
}
