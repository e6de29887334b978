package ports

import "go.trai.ch/portable/internal/core/domain"

// EnvironmentStore reads and writes conda environment files.
//
//go:generate mockgen -source=environment_store.go -destination=mocks/mock_environment_store.go -package=mocks
type EnvironmentStore interface {
	// Read parses the environment file at path.
	// It fails when the file has no dependency list.
	Read(path string) (*domain.Document, error)

	// Write serializes doc to path, preserving its key order.
	Write(path string, doc *domain.Document) error
}
