package backend

import (
	"context"

	"bilancio/internal/core"
)

// Ports the engine's callers plug into. The projection core itself never
// sees these; it is handed flat slices.
type (
	// TransactionSource supplies the flat transaction list, newest first.
	TransactionSource interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionWriter appends a transaction and returns its id.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (string, error)
	}

	// StatusWriter persists batched due-to-overdue transitions. This is
	// the only write path the reconciliation step uses.
	StatusWriter interface {
		MarkOverdue(ctx context.Context, ids []string) error
	}
)

// Backend bundles the ports a full data backend provides.
type Backend interface {
	TransactionSource
	TransactionWriter
	StatusWriter
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Memory backend specific
	DataDirectory string
}

// Type represents the kind of backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Validate validates the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return errInvalidType(c.Type)
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		return errMissingDBPath
	}
	return nil
}
