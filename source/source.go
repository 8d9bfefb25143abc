// package source provides methods for loading the base dataset document that is assembled and indexed.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

// type LoadOptions defines how a source file is interpreted.
type LoadOptions struct {
	// NOAA indicates the source is a NOAA (ISO 19115/19139) XML metadata record rather than a dataset document.
	NOAA bool
}

// Load returns the JSON-encoded base document for the file at 'path'. Files ending in ".yaml" or ".yml"
// are decoded as YAML, NOAA metadata is imported in to a new document and everything else must be JSON.
func Load(ctx context.Context, path string, opts *LoadOptions) ([]byte, error) {

	if opts != nil && opts.NOAA {

		fh, err := os.Open(path)

		if err != nil {
			return nil, err
		}

		defer fh.Close()

		return ImportNOAA(fh)
	}

	body, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLToJSON(body)
	default:

		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%s is not valid JSON", path)
		}

		if !gjson.ParseBytes(body).IsObject() {
			return nil, fmt.Errorf("%s is not a JSON object", path)
		}

		return body, nil
	}
}

// YAMLToJSON converts a YAML mapping in to its JSON equivalent.
func YAMLToJSON(body []byte) ([]byte, error) {

	var raw interface{}

	err := yaml.Unmarshal(body, &raw)

	if err != nil {
		return nil, fmt.Errorf("Failed to decode YAML, %w", err)
	}

	if raw == nil {
		raw = make(map[string]interface{})
	}

	doc, ok := stringKeys(raw).(map[string]interface{})

	if !ok {
		return nil, errors.New("YAML document is not a mapping")
	}

	enc, err := json.Marshal(doc)

	if err != nil {
		return nil, fmt.Errorf("Failed to encode YAML document as JSON, %w", err)
	}

	return enc, nil
}

// stringKeys returns 'v' with the keys of every nested mapping converted to strings,
// since YAML allows (for example) integer keys and JSON does not.
func stringKeys(v interface{}) interface{} {

	switch t := v.(type) {
	case map[interface{}]interface{}:

		m := make(map[string]interface{}, len(t))

		for k, v := range t {
			m[fmt.Sprint(k)] = stringKeys(v)
		}

		return m

	case map[string]interface{}:

		for k, v := range t {
			t[k] = stringKeys(v)
		}

		return t

	case []interface{}:

		for i, v := range t {
			t[i] = stringKeys(v)
		}

		return t

	default:
		return v
	}
}
