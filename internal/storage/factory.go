// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/config"
	"github.com/spherecam/spherecam/internal/storage/memory"
	sqlitestorage "github.com/spherecam/spherecam/internal/storage/sqlite"
)

// NewBackend creates a journal backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		b, err := sqlitestorage.New(log)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
