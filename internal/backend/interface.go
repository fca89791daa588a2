package backend

import (
	"context"
	"time"

	"ledger/internal/services"
	"ledger/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired ledger service and the resources behind it.
type BackendResult struct {
	Service *services.LedgerService
	Repo    store.Repository
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite names the in-memory database; every backend instance gets a
	// private copy.
	SQLiteDBName string

	// Categories loaded into a fresh session.
	SeedFile string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Stats cache: Redis when RedisURL is set, in-process LRU otherwise.
	RedisURL      string
	StatsCacheTTL time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
