// package tools provides the `dsindex` tool for creating the Elasticsearch index that datasets are written to.
//
// Clients should always read and write datasets through an alias rather than the index itself. This allows
// a new index, with a new mapping, to be created and populated (by reindexing the documents of the current
// index) and then swapped in by moving the alias.
package tools

import (
	"context"
	"errors"
	"flag"
	"fmt"
	es "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/openskope/go-skope-elasticsearch/index"
	"github.com/openskope/go-skope-elasticsearch/logging"
	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-flags/lookup"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"io"
	"os"
	"strings"
	"time"
)

const FLAG_ES_ENDPOINT string = "elasticsearch-endpoint"
const FLAG_ES_INDEX string = "elasticsearch-index"
const FLAG_FORCE string = "force"
const FLAG_REINDEX string = "reindex"
const FLAG_ALIAS string = "alias"
const FLAG_TIMEOUT string = "timeout"
const FLAG_LOG string = "log"
const FLAG_DEBUG string = "debug"

var ErrIndexExists = errors.New("Index already exists, use the -force flag to replace it")
var ErrSourceIndexNotFound = errors.New("Source index not found")

// type RunIndexToolOptions contains runtime configurations for creating an index.
type RunIndexToolOptions struct {
	// Client is a `go-elasticsearch` client instance.
	Client *es.Client
	// Index is the name of the index to create.
	Index string
	// Mapping is the path to a file whose contents are sent, verbatim, as the body of the create index request.
	Mapping string
	// Force, if true, deletes Index before creating it.
	Force bool
	// Reindex is the name of an existing index whose documents are copied in to Index.
	Reindex string
	// Alias is applied to Index, after being removed from any other index, unless it is empty or the same as Index.
	Alias string
	// Timeout is applied to each individual request.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// NewIndexToolFlagSet creates a new `flag.FlagSet` instance with command-line flags required by the `dsindex` tool.
func NewIndexToolFlagSet(ctx context.Context) (*flag.FlagSet, error) {

	fs := flagset.NewFlagSet("dsindex")

	fs.String(FLAG_ES_ENDPOINT, index.EnvOrDefault("ES_URL", "http://localhost:9200"), "A fully-qualified Elasticsearch endpoint. Defaults to the value of the ES_URL environment variable.")
	fs.String(FLAG_ES_INDEX, index.EnvOrDefault("ES_INDEX", "datasets"), "The name of the Elasticsearch index to create. Defaults to the value of the ES_INDEX environment variable.")
	fs.Bool(FLAG_FORCE, false, "Delete the index if it already exists.")
	fs.String(FLAG_REINDEX, "", "Copy all the documents in this (existing) index in to the new index.")
	fs.String(FLAG_ALIAS, "datasets", "Apply this alias to the new index, removing it from any other index.")
	fs.Int(FLAG_TIMEOUT, 60, "The number of seconds to wait for each Elasticsearch request.")
	fs.String(FLAG_LOG, "stderr", "Where to write log messages. Valid options are: stderr, stdout, discard or the path to a (rotated) log file.")
	fs.Bool(FLAG_DEBUG, false, "Enable debug logging.")

	return fs, nil
}

// RunIndexToolOptionsFromFlagSet returns a `RunIndexToolOptions` instance derived from the values in 'fs'.
func RunIndexToolOptionsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*RunIndexToolOptions, error) {

	args := fs.Args()

	if len(args) != 1 {
		return nil, errors.New("Expected exactly one mapping file")
	}

	es_endpoint, err := lookup.StringVar(fs, FLAG_ES_ENDPOINT)

	if err != nil {
		return nil, err
	}

	es_index, err := lookup.StringVar(fs, FLAG_ES_INDEX)

	if err != nil {
		return nil, err
	}

	force, err := lookup.BoolVar(fs, FLAG_FORCE)

	if err != nil {
		return nil, err
	}

	reindex, err := lookup.StringVar(fs, FLAG_REINDEX)

	if err != nil {
		return nil, err
	}

	alias, err := lookup.StringVar(fs, FLAG_ALIAS)

	if err != nil {
		return nil, err
	}

	timeout, err := lookup.IntVar(fs, FLAG_TIMEOUT)

	if err != nil {
		return nil, err
	}

	dest, err := lookup.StringVar(fs, FLAG_LOG)

	if err != nil {
		return nil, err
	}

	debug, err := lookup.BoolVar(fs, FLAG_DEBUG)

	if err != nil {
		return nil, err
	}

	level := "info"

	if debug {
		level = "debug"
	}

	logger, err := logging.NewLogger(dest, level)

	if err != nil {
		return nil, fmt.Errorf("Failed to create logger, %w", err)
	}

	es_client, err := index.NewClient(es_endpoint)

	if err != nil {
		return nil, fmt.Errorf("Failed to create ES client, %w", err)
	}

	opts := &RunIndexToolOptions{
		Client:  es_client,
		Index:   es_index,
		Mapping: args[0],
		Force:   force,
		Reindex: reindex,
		Alias:   alias,
		Timeout: time.Duration(timeout) * time.Second,
		Logger:  logger,
	}

	return opts, nil
}

// RunIndexToolWithFlagSet will create an index with configuration details defined in 'fs'.
func RunIndexToolWithFlagSet(ctx context.Context, fs *flag.FlagSet) error {

	opts, err := RunIndexToolOptionsFromFlagSet(ctx, fs)

	if err != nil {
		return err
	}

	return RunIndexTool(ctx, opts)
}

// RunIndexTool will create an index with configuration details defined in 'opts', optionally
// deleting an existing index first, reindexing documents from another index and applying an alias.
func RunIndexTool(ctx context.Context, opts *RunIndexToolOptions) error {

	logger := opts.Logger

	if logger == nil {
		logger = logging.Discard()
	}

	// Read the mapping before anything is deleted so that a bad path does not leave us without an index.

	mapping, err := os.ReadFile(opts.Mapping)

	if err != nil {
		return fmt.Errorf("Unable to open mapping file %s, %w", opts.Mapping, err)
	}

	if opts.Force {

		logger.Debugf("Deleting index %s", opts.Index)

		err := deleteIndex(ctx, opts)

		if err != nil {
			return err
		}
	}

	logger.Debugf("Creating index %s", opts.Index)

	err = createIndex(ctx, opts, string(mapping))

	if err != nil {
		return err
	}

	logger.Debugf("Index %s created", opts.Index)

	if opts.Reindex != "" {

		logger.Debugf("Reindexing from %s", opts.Reindex)

		err := reindex(ctx, opts)

		if err != nil {
			return err
		}

		logger.Debug("Reindexing complete")
	}

	if opts.Alias != "" && opts.Alias != opts.Index {

		logger.Debugf("Applying alias %s to index %s", opts.Alias, opts.Index)

		err := applyAlias(ctx, opts)

		if err != nil {
			return err
		}
	}

	return nil
}

func deleteIndex(ctx context.Context, opts *RunIndexToolOptions) error {

	cl := opts.Client

	rsp, err := cl.Indices.Delete(
		[]string{opts.Index},
		cl.Indices.Delete.WithContext(ctx),
		cl.Indices.Delete.WithTimeout(opts.Timeout),
	)

	if err != nil {
		return fmt.Errorf("Failed to delete index %s, %w", opts.Index, err)
	}

	defer rsp.Body.Close()

	switch rsp.StatusCode {
	case 400, 404:
		return nil
	}

	if rsp.IsError() {
		return responseError(rsp, fmt.Sprintf("Failed to delete index %s", opts.Index))
	}

	return nil
}

func createIndex(ctx context.Context, opts *RunIndexToolOptions, mapping string) error {

	cl := opts.Client

	rsp, err := cl.Indices.Create(
		opts.Index,
		cl.Indices.Create.WithContext(ctx),
		cl.Indices.Create.WithBody(strings.NewReader(mapping)),
		cl.Indices.Create.WithTimeout(opts.Timeout),
	)

	if err != nil {
		return fmt.Errorf("Failed to create index %s, %w", opts.Index, err)
	}

	defer rsp.Body.Close()

	if !rsp.IsError() {
		return nil
	}

	body, _ := io.ReadAll(rsp.Body)

	if rsp.StatusCode == 400 && strings.Contains(gjson.GetBytes(body, "error.type").String(), "already_exists") {
		return fmt.Errorf("Failed to create index %s, %w", opts.Index, ErrIndexExists)
	}

	return fmt.Errorf("Failed to create index %s, %s: %s", opts.Index, rsp.Status(), index.ErrorReason(body))
}

func reindex(ctx context.Context, opts *RunIndexToolOptions) error {

	cl := opts.Client

	body := fmt.Sprintf(`{"source":{"index":%q},"dest":{"index":%q}}`, opts.Reindex, opts.Index)

	rsp, err := cl.Reindex(
		strings.NewReader(body),
		cl.Reindex.WithContext(ctx),
		cl.Reindex.WithWaitForCompletion(true),
		cl.Reindex.WithTimeout(opts.Timeout),
	)

	if err != nil {
		return fmt.Errorf("Failed to reindex from %s, %w", opts.Reindex, err)
	}

	defer rsp.Body.Close()

	rsp_body, _ := io.ReadAll(rsp.Body)

	if rsp.StatusCode == 404 {
		return fmt.Errorf("Failed to reindex from %s, %w", opts.Reindex, ErrSourceIndexNotFound)
	}

	if rsp.IsError() {
		return fmt.Errorf("Failed to reindex from %s, %s: %s", opts.Reindex, rsp.Status(), index.ErrorReason(rsp_body))
	}

	failures := gjson.GetBytes(rsp_body, "failures")

	if len(failures.Array()) > 0 {
		return fmt.Errorf("Failed to reindex %d documents from %s", len(failures.Array()), opts.Reindex)
	}

	return nil
}

func applyAlias(ctx context.Context, opts *RunIndexToolOptions) error {

	cl := opts.Client

	del_rsp, err := cl.Indices.DeleteAlias(
		[]string{"_all"},
		[]string{opts.Alias},
		cl.Indices.DeleteAlias.WithContext(ctx),
	)

	if err != nil {
		return fmt.Errorf("Failed to remove alias %s, %w", opts.Alias, err)
	}

	defer del_rsp.Body.Close()

	if del_rsp.IsError() && del_rsp.StatusCode != 404 {
		return responseError(del_rsp, fmt.Sprintf("Failed to remove alias %s", opts.Alias))
	}

	put_rsp, err := cl.Indices.PutAlias(
		[]string{opts.Index},
		opts.Alias,
		cl.Indices.PutAlias.WithContext(ctx),
	)

	if err != nil {
		return fmt.Errorf("Failed to apply alias %s, %w", opts.Alias, err)
	}

	defer put_rsp.Body.Close()

	if put_rsp.IsError() {
		return responseError(put_rsp, fmt.Sprintf("Failed to apply alias %s", opts.Alias))
	}

	return nil
}

func responseError(rsp *esapi.Response, msg string) error {
	body, _ := io.ReadAll(rsp.Body)
	return fmt.Errorf("%s, %s: %s", msg, rsp.Status(), index.ErrorReason(body))
}
