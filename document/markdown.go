package document

import (
	"context"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"io/fs"
	"os"
	"strings"
)

const heading_marker string = "# "

// UpdateDescription merges the markdown file at 'path' in to 'body'. The first line starting
// with "# " replaces the title property and the remaining text, less any leading blank lines,
// replaces the description property. If 'path' does not exist 'body' is returned unchanged.
func UpdateDescription(ctx context.Context, body []byte, path string) ([]byte, error) {

	md, ok, err := readOptionalFile(path)

	if err != nil {
		return nil, err
	}

	if !ok {
		return body, nil
	}

	lines := strings.SplitAfter(string(md), "\n")

	for idx, ln := range lines {

		if !strings.HasPrefix(ln, heading_marker) {
			continue
		}

		title := strings.TrimSpace(strings.TrimPrefix(ln, heading_marker))

		body, err = sjson.SetBytes(body, "title", title)

		if err != nil {
			return nil, err
		}

		lines = append(lines[:idx], lines[idx+1:]...)
		break
	}

	start := len(lines)

	for idx, ln := range lines {

		if strings.TrimSpace(ln) != "" {
			start = idx
			break
		}
	}

	description := strings.Join(lines[start:], "")
	return sjson.SetBytes(body, "description", description)
}

// UpdateMarkdown assigns the contents of the file at 'path' to the "{key}.markdown" property of 'body'.
// If 'path' does not exist and the property already holds a non-empty value it is cleared, so that
// markdown removed from a dataset directory does not linger in the index.
func UpdateMarkdown(ctx context.Context, body []byte, key string, path string) ([]byte, error) {

	md_path := fmt.Sprintf("%s.markdown", key)

	md, ok, err := readOptionalFile(path)

	if err != nil {
		return nil, err
	}

	if ok {
		return sjson.SetBytes(body, md_path, string(md))
	}

	if gjson.GetBytes(body, md_path).String() != "" {
		return sjson.SetBytes(body, md_path, "")
	}

	return body, nil
}

// readOptionalFile returns the contents of 'path' and true, or false if there is no regular file at 'path'.
func readOptionalFile(path string) ([]byte, bool, error) {

	if path == "" {
		return nil, false, nil
	}

	info, err := os.Stat(path)

	if err != nil {

		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, err
	}

	if !info.Mode().IsRegular() {
		return nil, false, nil
	}

	b, err := os.ReadFile(path)

	if err != nil {
		return nil, false, fmt.Errorf("Failed to read %s, %w", path, err)
	}

	return b, true, nil
}
