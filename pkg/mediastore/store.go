// Package mediastore abstracts binary media storage for the generation
// stages. The orchestration core never calls it directly; stage
// implementations store what the services synthesize and thread the returned
// refs into workflow results.
package mediastore

import "context"

// Metadata describes one stored object.
type Metadata struct {
	Filename    string
	ContentType string
}

// Ref identifies a stored object: PublicURL for consumers, StoragePath for
// internal Get/Delete calls.
type Ref struct {
	PublicURL   string `json:"public_url"`
	StoragePath string `json:"storage_path"`
}

// Store is the media storage boundary contract.
type Store interface {
	Put(ctx context.Context, data []byte, meta Metadata) (Ref, error)
	Get(ctx context.Context, storagePath string) ([]byte, error)
	Delete(ctx context.Context, storagePath string) (bool, error)
}
