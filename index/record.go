package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// The name of the file, stored alongside a dataset's source files, that records the identifier of the
// most recently indexed version of that dataset.
const IDENTIFIER_FILENAME string = "ID"

// IdentifierPath returns the path of the identifier record in the directory 'root'.
func IdentifierPath(root string) string {
	return filepath.Join(root, IDENTIFIER_FILENAME)
}

// ReadIdentifier returns the identifier recorded in 'root', or an empty string if there is no record.
func ReadIdentifier(root string) (string, error) {

	path := IdentifierPath(root)

	body, err := os.ReadFile(path)

	if err != nil {

		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("Failed to read %s, %w", path, err)
	}

	return strings.TrimSpace(string(body)), nil
}

// WriteIdentifier replaces the identifier recorded in 'root' with 'id'.
func WriteIdentifier(root string, id string) error {

	path := IdentifierPath(root)

	err := os.WriteFile(path, []byte(id), 0644)

	if err != nil {
		return fmt.Errorf("Failed to write %s, %w", path, err)
	}

	return nil
}
