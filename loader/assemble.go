// package loader provides methods for assembling a dataset document from a directory of supporting files and writing it to Elasticsearch.
package loader

import (
	"context"
	"fmt"
	"github.com/openskope/go-skope-elasticsearch/document"
	"github.com/openskope/go-skope-elasticsearch/logging"
	"github.com/openskope/go-skope-elasticsearch/source"
	"github.com/sirupsen/logrus"
	"path/filepath"
)

// type Files contains the names of the optional supporting files read when assembling a dataset.
// Relative names are resolved against the directory containing the source file.
type Files struct {
	Description string
	Information string
	Boundary    string
	Provenance  string
	// Parameters maps each service to its JSON parameter file.
	Parameters map[document.Service]string
	// Markdown maps each service to the markdown file describing it.
	Markdown map[document.Service]string
}

// DefaultFiles returns the conventional names of the supporting files in a dataset directory.
func DefaultFiles() *Files {

	f := &Files{
		Description: "description.md",
		Information: "info.md",
		Boundary:    "boundary.geojson",
		Provenance:  "provenance.md",
		Parameters: map[document.Service]string{
			document.Overlays:  "overlays.json",
			document.Downloads: "downloads.json",
			document.Analytics: "analytics.json",
			document.Model:     "model.json",
		},
		Markdown: map[document.Service]string{
			document.Overlays:  "overlay.md",
			document.Downloads: "download.md",
			document.Analytics: "analytics.md",
			document.Model:     "model.md",
		},
	}

	return f
}

// type AssembleOptions contains runtime configurations for assembling a dataset document.
type AssembleOptions struct {
	// Source is the path of the base dataset document.
	Source string
	// NOAA indicates that Source is a NOAA metadata record to import rather than a dataset document.
	NOAA bool
	// Files are the supporting files to merge in to the base document.
	Files *Files
	// AppendVariables, if true, appends a list of the dataset's variables to its description.
	AppendVariables bool
	// TemplateVars are substituted in to the URLs of service entries.
	TemplateVars document.TemplateVars
	Logger       logrus.FieldLogger
}

// Root returns the directory containing the source file.
func (opts *AssembleOptions) Root() string {
	return filepath.Dir(opts.Source)
}

// AssembleDocument loads the base document described by 'opts' and applies, in order: the description
// markdown, slug generation, variable normalization, the optional variables summary, boundary resolution,
// the information markdown, each service's parameters and markdown and finally the provenance markdown.
func AssembleDocument(ctx context.Context, opts *AssembleOptions) ([]byte, error) {

	load_opts := &source.LoadOptions{
		NOAA: opts.NOAA,
	}

	body, err := source.Load(ctx, opts.Source, load_opts)

	if err != nil {
		return nil, fmt.Errorf("Failed to load %s, %w", opts.Source, err)
	}

	prepare_funcs := PrepareFuncsFromOptions(opts)

	return document.Prepare(ctx, body, prepare_funcs...)
}

// PrepareFuncsFromOptions returns the ordered list of `document.PrepareDocumentFunc` functions used to
// assemble a dataset with configuration details defined in 'opts'.
func PrepareFuncsFromOptions(opts *AssembleOptions) []document.PrepareDocumentFunc {

	root := opts.Root()

	files := opts.Files

	if files == nil {
		files = DefaultFiles()
	}

	logger := opts.Logger

	if logger == nil {
		logger = logging.Discard()
	}

	vars := opts.TemplateVars

	if vars == nil {
		vars = document.DefaultTemplateVars()
	}

	resolve := func(fname string) string {

		if fname == "" || filepath.IsAbs(fname) {
			return fname
		}

		return filepath.Join(root, fname)
	}

	slugger := document.NewSlugger()

	prepare_funcs := []document.PrepareDocumentFunc{
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.UpdateDescription(ctx, body, resolve(files.Description))
		},
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.UpdateSlug(ctx, body, slugger)
		},
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.NormalizeVariables(ctx, body, slugger, logger)
		},
	}

	if opts.AppendVariables {
		prepare_funcs = append(prepare_funcs, document.AppendVariables)
	}

	prepare_funcs = append(prepare_funcs,
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.ResolveBoundary(ctx, body, resolve(files.Boundary), logger)
		},
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.UpdateMarkdown(ctx, body, document.INFORMATION_MARKDOWN_KEY, resolve(files.Information))
		},
	)

	for _, s := range document.Services() {

		service := s
		params_path := resolve(files.Parameters[service])
		md_path := resolve(files.Markdown[service])

		prepare_funcs = append(prepare_funcs,
			func(ctx context.Context, body []byte) ([]byte, error) {
				return document.UpdateParameters(ctx, body, service, params_path, vars, logger)
			},
			func(ctx context.Context, body []byte) ([]byte, error) {
				return document.UpdateMarkdown(ctx, body, service.MarkdownKey(), md_path)
			},
		)
	}

	prepare_funcs = append(prepare_funcs,
		func(ctx context.Context, body []byte) ([]byte, error) {
			return document.UpdateMarkdown(ctx, body, document.PROVENANCE_MARKDOWN_KEY, resolve(files.Provenance))
		},
	)

	return prepare_funcs
}
