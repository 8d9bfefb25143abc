package loader

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/openskope/go-skope-elasticsearch/document"
	"github.com/openskope/go-skope-elasticsearch/index"
	"github.com/openskope/go-skope-elasticsearch/logging"
	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-flags/lookup"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
	"io"
	"os"
)

const FLAG_ES_ENDPOINT string = "elasticsearch-endpoint"
const FLAG_ES_INDEX string = "elasticsearch-index"
const FLAG_ES_DOCTYPE string = "elasticsearch-document-type"
const FLAG_ES_VERSION string = "elasticsearch-version"
const FLAG_DESCRIPTION_MD string = "description-md"
const FLAG_INFO_MD string = "info-md"
const FLAG_BOUNDARY string = "boundary"
const FLAG_OVERLAYS string = "overlays"
const FLAG_OVERLAY_MD string = "overlay-md"
const FLAG_DOWNLOADS string = "downloads"
const FLAG_DOWNLOAD_MD string = "download-md"
const FLAG_ANALYTICS string = "analytics"
const FLAG_ANALYTICS_MD string = "analytics-md"
const FLAG_MODEL string = "model"
const FLAG_MODEL_MD string = "model-md"
const FLAG_PROVENANCE_MD string = "provenance-md"
const FLAG_NOAA string = "noaa"
const FLAG_NO_VARIABLES string = "no-variables"
const FLAG_KEEP_PREVIOUS string = "keep-previous"
const FLAG_DEPLOY_HOST string = "deploy-host"
const FLAG_YEAR string = "year"
const FLAG_MONTH string = "month"
const FLAG_VERBOSE string = "verbose"
const FLAG_DRYRUN string = "dryrun"
const FLAG_LOG string = "log"
const FLAG_DEBUG string = "debug"

// type RunLoaderOptions contains runtime configurations for assembling and indexing a dataset.
type RunLoaderOptions struct {
	AssembleOptions
	// Writer is the `index.Writer` used to store the assembled document. It may be nil if DryRun is true.
	Writer index.Writer
	// PreservePrevious, if true, leaves the previously indexed version of the dataset in place.
	PreservePrevious bool
	// Verbose, if true, writes the assembled document to Output.
	Verbose bool
	// DryRun, if true, assembles the document and writes it to Output without indexing it.
	DryRun bool
	Output io.Writer
}

// NewLoaderFlagSet creates a new `flag.FlagSet` instance with command-line flags required by the `dsloader` tool.
func NewLoaderFlagSet(ctx context.Context) (*flag.FlagSet, error) {

	fs := flagset.NewFlagSet("dsloader")

	vars := document.DefaultTemplateVars()
	files := DefaultFiles()

	fs.String(FLAG_ES_ENDPOINT, index.EnvOrDefault("ES_URL", "http://localhost:9200"), "A fully-qualified Elasticsearch endpoint. Defaults to the value of the ES_URL environment variable.")
	fs.String(FLAG_ES_INDEX, index.EnvOrDefault("ES_INDEX", "datasets"), "A valid Elasticsearch index (or alias). Defaults to the value of the ES_INDEX environment variable.")
	fs.String(FLAG_ES_DOCTYPE, index.DEFAULT_DOCUMENT_TYPE, "The Elasticsearch document type for datasets.")
	fs.Int(FLAG_ES_VERSION, 7, "The major version of the Elasticsearch cluster. Valid options are: 6, 7.")

	fs.String(FLAG_DESCRIPTION_MD, files.Description, "Markdown file that updates the dataset's title and description.")
	fs.String(FLAG_INFO_MD, files.Information, "Markdown file that updates the dataset's information.")
	fs.String(FLAG_BOUNDARY, files.Boundary, "GeoJSON file containing the dataset's boundary.")
	fs.String(FLAG_OVERLAYS, files.Parameters[document.Overlays], "Overlay service parameter file.")
	fs.String(FLAG_OVERLAY_MD, files.Markdown[document.Overlays], "Markdown description of the overlay service.")
	fs.String(FLAG_DOWNLOADS, files.Parameters[document.Downloads], "Download service parameter file.")
	fs.String(FLAG_DOWNLOAD_MD, files.Markdown[document.Downloads], "Markdown description of the download service.")
	fs.String(FLAG_ANALYTICS, files.Parameters[document.Analytics], "Analytics service parameter file.")
	fs.String(FLAG_ANALYTICS_MD, files.Markdown[document.Analytics], "Markdown description of the analytics service.")
	fs.String(FLAG_MODEL, files.Parameters[document.Model], "Model service parameter file.")
	fs.String(FLAG_MODEL_MD, files.Markdown[document.Model], "Markdown description of the model service.")
	fs.String(FLAG_PROVENANCE_MD, files.Provenance, "Markdown description of the dataset's provenance.")

	fs.Bool(FLAG_NOAA, false, "The source file is a NOAA (ISO 19115) metadata record.")
	fs.Bool(FLAG_NO_VARIABLES, false, "Do not append the list of variables to the dataset's description.")
	fs.Bool(FLAG_KEEP_PREVIOUS, false, "Do not remove the previously indexed version of the dataset.")

	fs.String(FLAG_DEPLOY_HOST, vars[document.TEMPLATE_DEPLOY_HOST], "Replaces {DEPLOY_HOST} in service URLs. Defaults to the value of the DEPLOY_HOST environment variable.")
	fs.String(FLAG_YEAR, vars[document.TEMPLATE_YEAR], "Replaces {YEAR} in service URLs. Defaults to the value of the YEAR environment variable.")
	fs.String(FLAG_MONTH, vars[document.TEMPLATE_MONTH], "Replaces {MONTH} in service URLs. Defaults to the value of the MONTH environment variable.")

	fs.Bool(FLAG_VERBOSE, false, "Write the assembled document to STDOUT.")
	fs.Bool(FLAG_DRYRUN, false, "Assemble the document and write it to STDOUT but do not index it.")
	fs.String(FLAG_LOG, "stderr", "Where to write log messages. Valid options are: stderr, stdout, discard or the path to a (rotated) log file.")
	fs.Bool(FLAG_DEBUG, false, "Enable debug logging.")

	return fs, nil
}

// FilesFromFlagSet returns a `Files` instance derived from the values in 'fs'.
func FilesFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*Files, error) {

	files := DefaultFiles()

	str_flags := map[string]*string{
		FLAG_DESCRIPTION_MD: &files.Description,
		FLAG_INFO_MD:        &files.Information,
		FLAG_BOUNDARY:       &files.Boundary,
		FLAG_PROVENANCE_MD:  &files.Provenance,
	}

	for k, ptr := range str_flags {

		v, err := lookup.StringVar(fs, k)

		if err != nil {
			return nil, err
		}

		*ptr = v
	}

	service_flags := map[document.Service][2]string{
		document.Overlays:  {FLAG_OVERLAYS, FLAG_OVERLAY_MD},
		document.Downloads: {FLAG_DOWNLOADS, FLAG_DOWNLOAD_MD},
		document.Analytics: {FLAG_ANALYTICS, FLAG_ANALYTICS_MD},
		document.Model:     {FLAG_MODEL, FLAG_MODEL_MD},
	}

	for service, names := range service_flags {

		params, err := lookup.StringVar(fs, names[0])

		if err != nil {
			return nil, err
		}

		md, err := lookup.StringVar(fs, names[1])

		if err != nil {
			return nil, err
		}

		files.Parameters[service] = params
		files.Markdown[service] = md
	}

	return files, nil
}

// TemplateVarsFromFlagSet returns a `document.TemplateVars` instance derived from the values in 'fs'.
func TemplateVarsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (document.TemplateVars, error) {

	vars := document.DefaultTemplateVars()

	flags := map[string]string{
		FLAG_DEPLOY_HOST: document.TEMPLATE_DEPLOY_HOST,
		FLAG_YEAR:        document.TEMPLATE_YEAR,
		FLAG_MONTH:       document.TEMPLATE_MONTH,
	}

	for fl, k := range flags {

		v, err := lookup.StringVar(fs, fl)

		if err != nil {
			return nil, err
		}

		vars[k] = v
	}

	return vars, nil
}

// WriterFromFlagSet returns an `index.Writer` instance derived from the values in 'fs'.
func WriterFromFlagSet(ctx context.Context, fs *flag.FlagSet) (index.Writer, error) {

	es_endpoint, err := lookup.StringVar(fs, FLAG_ES_ENDPOINT)

	if err != nil {
		return nil, err
	}

	es_index, err := lookup.StringVar(fs, FLAG_ES_INDEX)

	if err != nil {
		return nil, err
	}

	doc_type, err := lookup.StringVar(fs, FLAG_ES_DOCTYPE)

	if err != nil {
		return nil, err
	}

	es_version, err := lookup.IntVar(fs, FLAG_ES_VERSION)

	if err != nil {
		return nil, err
	}

	switch es_version {
	case 6:

		wr, err := index.NewES6Writer(es_endpoint, es_index, doc_type)

		if err != nil {
			return nil, err
		}

		return wr, nil
	case 7:

		es_client, err := index.NewClient(es_endpoint)

		if err != nil {
			return nil, fmt.Errorf("Failed to create ES client, %w", err)
		}

		return index.NewESWriter(es_client, es_index, doc_type), nil
	default:
		return nil, fmt.Errorf("Unsupported -%s value: %d", FLAG_ES_VERSION, es_version)
	}
}

// LoggerFromFlagSet returns a `logrus.Logger` instance derived from the values in 'fs'.
func LoggerFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*logrus.Logger, error) {

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

	return logging.NewLogger(dest, level)
}

// RunLoaderOptionsFromFlagSet returns a `RunLoaderOptions` instance derived from the values in 'fs'.
func RunLoaderOptionsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*RunLoaderOptions, error) {

	args := fs.Args()

	if len(args) != 1 {
		return nil, errors.New("Expected exactly one source file")
	}

	noaa, err := lookup.BoolVar(fs, FLAG_NOAA)

	if err != nil {
		return nil, err
	}

	no_variables, err := lookup.BoolVar(fs, FLAG_NO_VARIABLES)

	if err != nil {
		return nil, err
	}

	keep_previous, err := lookup.BoolVar(fs, FLAG_KEEP_PREVIOUS)

	if err != nil {
		return nil, err
	}

	verbose, err := lookup.BoolVar(fs, FLAG_VERBOSE)

	if err != nil {
		return nil, err
	}

	dryrun, err := lookup.BoolVar(fs, FLAG_DRYRUN)

	if err != nil {
		return nil, err
	}

	files, err := FilesFromFlagSet(ctx, fs)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive supporting files from flagset, %w", err)
	}

	vars, err := TemplateVarsFromFlagSet(ctx, fs)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive template variables from flagset, %w", err)
	}

	logger, err := LoggerFromFlagSet(ctx, fs)

	if err != nil {
		return nil, fmt.Errorf("Failed to create logger, %w", err)
	}

	var wr index.Writer

	if !dryrun {

		wr, err = WriterFromFlagSet(ctx, fs)

		if err != nil {
			return nil, fmt.Errorf("Failed to create index writer, %w", err)
		}
	}

	opts := &RunLoaderOptions{
		AssembleOptions: AssembleOptions{
			Source:          args[0],
			NOAA:            noaa,
			Files:           files,
			AppendVariables: !no_variables,
			TemplateVars:    vars,
			Logger:          logger,
		},
		Writer:           wr,
		PreservePrevious: keep_previous,
		Verbose:          verbose,
		DryRun:           dryrun,
		Output:           os.Stdout,
	}

	return opts, nil
}

// RunLoaderWithFlagSet will assemble and index a dataset with configuration details defined in 'fs'.
func RunLoaderWithFlagSet(ctx context.Context, fs *flag.FlagSet) (string, error) {

	opts, err := RunLoaderOptionsFromFlagSet(ctx, fs)

	if err != nil {
		return "", err
	}

	return RunLoader(ctx, opts)
}

// RunLoader will assemble and index a dataset with configuration details defined in 'opts', returning
// the identifier of the newly indexed document. Nothing is written to the index unless the document
// is assembled without error.
func RunLoader(ctx context.Context, opts *RunLoaderOptions) (string, error) {

	body, err := AssembleDocument(ctx, &opts.AssembleOptions)

	if err != nil {
		return "", err
	}

	if opts.Verbose || opts.DryRun {

		out := opts.Output

		if out == nil {
			out = os.Stdout
		}

		_, err = out.Write(pretty.Pretty(body))

		if err != nil {
			return "", fmt.Errorf("Failed to write document, %w", err)
		}
	}

	if opts.DryRun {
		return "", nil
	}

	if opts.Writer == nil {
		return "", errors.New("No index writer")
	}

	replace_opts := &index.ReplaceOptions{
		Root:             opts.Root(),
		PreservePrevious: opts.PreservePrevious,
		Logger:           opts.Logger,
	}

	return index.ReplaceDocument(ctx, opts.Writer, body, replace_opts)
}
