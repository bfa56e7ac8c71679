// Package flowsense is the public entry point for hosts embedding the layout manager.
package flowsense

import (
	"fmt"

	"go.uber.org/zap"

	core "github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/pkg/filestore"
	"github.com/goliatone/go-flowsense/pkg/sqlitestore"
)

// Service exposes the underlying components/layout.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Store re-export for convenience.
type Store = core.Store

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Backend names accepted by OpenStore.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// OpenStore builds a preference store for the named backend. The returned
// close function is never nil.
func OpenStore(backend, path string, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case "", BackendMemory:
		return core.NewInMemoryStore(), noop, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(path, sqlitestore.WithLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendFile:
		s, err := filestore.New(path, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	default:
		return nil, noop, fmt.Errorf("flowsense: unknown store backend %q", backend)
	}
}
