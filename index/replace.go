package index

import (
	"context"
	"github.com/openskope/go-skope-elasticsearch/logging"
	"github.com/sirupsen/logrus"
)

// type ReplaceOptions contains runtime configurations for replacing a dataset document.
type ReplaceOptions struct {
	// Root is the directory containing the dataset's identifier record.
	Root string
	// PreservePrevious, if true, leaves the previously indexed version of the dataset in place.
	PreservePrevious bool
	// Logger receives warnings about stale documents that could not be removed.
	Logger logrus.FieldLogger
}

// ReplaceDocument indexes 'body' using 'w' and, once the write has succeeded, deletes the previously
// indexed version of the dataset (unless opts.PreservePrevious is set) and records the new identifier.
// Failing to delete the previous version is logged but is not an error. If the write fails neither the
// previous version nor the identifier record are touched.
func ReplaceDocument(ctx context.Context, w Writer, body []byte, opts *ReplaceOptions) (string, error) {

	logger := opts.Logger

	if logger == nil {
		logger = logging.Discard()
	}

	id, err := w.IndexDocument(ctx, body)

	if err != nil {
		return "", err
	}

	logger.WithField("id", id).Info("Indexed dataset")

	if !opts.PreservePrevious {

		prev_id, err := ReadIdentifier(opts.Root)

		if err != nil {
			logger.Warnf("Unable to determine previous dataset identifier, %v", err)
		}

		if prev_id == "" {
			logger.Debugf("No previous dataset identifier in %s", IdentifierPath(opts.Root))
		}

		if prev_id != "" && prev_id != id {

			err = w.DeleteDocument(ctx, prev_id)

			if err != nil {
				logger.WithField("id", prev_id).Warnf("Failed to remove previous version of dataset, %v", err)
			} else {
				logger.WithField("id", prev_id).Info("Removed previous version of dataset")
			}
		}
	}

	err = WriteIdentifier(opts.Root, id)

	if err != nil {
		return id, err
	}

	return id, nil
}
