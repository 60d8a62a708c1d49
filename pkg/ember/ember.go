// Package ember provides a local, embedded full-text inverted index.
// It ingests batches of structured documents - each a map from field name
// to terms with their positions - and persists them as immutable
// per-field segments on disk. Segments become visible atomically through
// a directory rename, readers discover them lazily, and term and boolean
// queries resolve over the union of everything committed so far.
package ember

import (
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/iamNilotpal/ember/internal/engine"
	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/logger"
	"github.com/iamNilotpal/ember/pkg/options"
	"github.com/iamNilotpal/ember/pkg/query"
)

// Instance represents one open ember index. It encapsulates the core
// engine responsible for segment writing and discovery, and the
// configuration options for this specific index directory.
//
// Instance is the primary entry point for interacting with an ember
// index, providing methods for indexing document batches and resolving
// queries against everything committed so far.
type Instance struct {
	engine  *engine.Engine   // The underlying engine handling write and read operations.
	options *options.Options // Configuration options applied to this index instance.
}

// NewInstance creates and initializes a new ember index instance.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	// Initialize a logger for the given service.
	log := logger.New(service)

	// Initialize default options.
	defaultOpts := options.NewDefaultOptions()

	// Apply any provided functional options to override defaults.
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Put indexes a batch of documents. Each field occurring in the batch
// receives one new immutable segment, committed atomically; local
// document ids [0, N) are assigned in batch order and offset by the
// index's current record count to form global ids. An empty batch is a
// no-op.
func (i *Instance) Put(ctx context.Context, documents []*document.Document) error {
	return i.engine.Put(ctx, documents)
}

// Find evaluates a query and returns the bitmap of matching global
// document ids.
func (i *Instance) Find(ctx context.Context, q query.Query) (*roaring.Bitmap, error) {
	return i.engine.Find(ctx, q)
}

// Reload re-discovers segments from disk. NewInstance discovers the
// segments already on disk and Put reloads implicitly, so this is only
// needed to pick up segments written to the directory by something else
// after this instance opened it.
func (i *Instance) Reload(ctx context.Context) error {
	return i.engine.Reload(ctx)
}

// RecordCount returns the total number of document ids allocated across
// all committed segments: the max over fields of the highest segment
// offset plus count.
func (i *Instance) RecordCount() uint64 {
	return i.engine.RecordCount()
}

// Close gracefully shuts down the index instance, releasing the
// memory-mapped term dictionaries of every open segment.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
