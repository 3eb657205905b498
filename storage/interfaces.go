package storage

import "beer-vote/models"

// ResultWriter is the interface any storage backend must satisfy.
type ResultWriter interface {
	Write(results *models.Results) error
	Close() error
}
