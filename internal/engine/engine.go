// Package engine provides the core coordinator for an ember instance.
//
// The engine is the entry point for index operations. It owns the
// reader-side catalog and dispatches writes through it, so that every
// batch is assigned its document id base from the freshest reader state
// and every committed segment becomes visible through a reload. It
// implements lifecycle management with an atomic closed flag so that a
// shut-down engine rejects further operations instead of touching
// released resources.
package engine

import (
	"context"
	stdErrors "errors"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ember/internal/index"
	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/errors"
	"github.com/iamNilotpal/ember/pkg/options"
	"github.com/iamNilotpal/ember/pkg/query"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// Engine coordinates the index catalog and the segment writer behind the
// public façade. It serves a single writer within a single process;
// concurrent writers on one index directory are unsupported, since two of
// them could assign the same document id base to different batches. Find
// does not synchronize with Put or Reload: the field readers' segment
// maps are read without a lock while a reload may be adding to them.
type Engine struct {
	options *options.Options   // Configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // Structured logging throughout the engine.
	closed  atomic.Bool        // Tracks the engine's lifecycle state.
	catalog *index.Index       // Reader-side catalog of fields and segments.
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine, opening (or creating) the
// index directory and discovering whatever segments already exist.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	catalog, err := index.Open(&index.Config{Options: config.Options, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	return &Engine{
		options: config.Options,
		log:     config.Logger,
		catalog: catalog,
	}, nil
}

// Put indexes one batch of documents as a new segment per field and makes
// it visible to subsequent queries.
func (e *Engine) Put(ctx context.Context, documents []*document.Document) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.catalog.Put(documents)
}

// Find evaluates a query against the current reader state and returns the
// matching global document ids.
func (e *Engine) Find(ctx context.Context, q query.Query) (*roaring.Bitmap, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	fields := e.catalog.Fields()
	sources := make(map[string]query.FieldSource, len(fields))
	for name, field := range fields {
		sources[name] = field
	}

	return q.Execute(sources)
}

// Reload re-discovers fields and segments from disk. New discovers the
// segments already on disk and Put reloads implicitly; an explicit Reload
// is only needed to observe segments written to the same directory by
// something else after this engine was opened.
func (e *Engine) Reload(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.catalog.Reload()
}

// RecordCount returns the global record count derived from the most
// recent reload.
func (e *Engine) RecordCount() uint64 {
	return e.catalog.RecordCount()
}

// Close gracefully shuts down the engine and releases all associated
// resources. Only the first call performs the shutdown.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.catalog.Close()
}
