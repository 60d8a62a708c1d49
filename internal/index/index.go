// Package index provides the reader-side catalog of an ember index: the
// mapping from field names to FieldReaders, the global record count
// derived from them, and the write entry point that chains a segment
// write with a reload so new segments become queryable.
//
// The catalog is the single mutation point for reader state. Segment and
// field maps only ever grow during a process lifetime, and a failed write
// never touches them: reader state changes exclusively through Reload,
// which only sees segments that were fully committed by the rename.
package index

import (
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamNilotpal/ember/internal/segment"
	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/errors"
	"github.com/iamNilotpal/ember/pkg/filesys"
	"github.com/iamNilotpal/ember/pkg/options"
)

var (
	// ErrIndexClosed is returned when attempting to perform operations on a closed index.
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// Index is the catalog over every field of one index directory.
type Index struct {
	path    string
	options *options.Options
	log     *zap.SugaredLogger

	mu     sync.RWMutex
	closed atomic.Bool

	fields      map[string]*FieldReader
	recordCount uint64
}

// Config holds all the parameters needed to initialize an Index.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open opens an existing index directory, or creates a new one, and
// performs an initial reload to discover whatever fields and segments are
// already on disk.
func Open(config *Config) (*Index, error) {
	if config == nil || config.Options == nil || config.Options.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	if err := filesys.CreateDir(config.Options.DataDir, config.Options.DirPermission); err != nil {
		return nil, errors.NewStorageError(
			err, errors.ClassifyOSError(err), "failed to create index directory",
		).WithPath(config.Options.DataDir)
	}

	idx := &Index{
		path:    config.Options.DataDir,
		options: config.Options,
		log:     config.Logger,
		fields:  make(map[string]*FieldReader),
	}

	if err := idx.Reload(); err != nil {
		return nil, err
	}

	idx.log.Infow(
		"Index opened",
		"path", idx.path,
		"fields", len(idx.fields),
		"recordCount", idx.recordCount,
	)
	return idx, nil
}

// Reload enumerates field subdirectories, creates FieldReaders for fields
// it has not seen before, reloads all fields concurrently, and recomputes
// the global record count as the max across fields. Reloading with no
// filesystem change is a no-op on reader state.
func (i *Index) Reload() error {
	if i.closed.Load() {
		return ErrIndexClosed
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	names, err := filesys.ListSubdirs(i.path)
	if err != nil {
		return errors.NewIndexError(
			err, errors.ErrorCodeIO, "failed to enumerate index fields",
		).WithOperation("Reload").WithDetail("path", i.path)
	}

	for _, name := range names {
		if _, ok := i.fields[name]; !ok {
			i.fields[name] = NewFieldReader(i.path, name, i.log)
		}
	}

	var group errgroup.Group
	if i.options.WriterConcurrency > 0 {
		group.SetLimit(i.options.WriterConcurrency)
	}
	for _, field := range i.fields {
		group.Go(field.Reload)
	}
	if err := group.Wait(); err != nil {
		return err
	}

	var recordCount uint64
	for _, field := range i.fields {
		if rc := field.RecordCount(); rc > recordCount {
			recordCount = rc
		}
	}
	i.recordCount = recordCount

	return nil
}

// Put writes one batch of documents as a new segment per field, using the
// current global record count as the new segment's document id base, then
// reloads so the segments become visible to readers. A failed write
// leaves reader state untouched.
func (i *Index) Put(documents []*document.Document) error {
	if i.closed.Load() {
		return ErrIndexClosed
	}

	offset := i.RecordCount()
	if err := segment.Write(
		&segment.Config{Options: i.options, Logger: i.log},
		offset,
		documents,
	); err != nil {
		return err
	}

	return i.Reload()
}

// RecordCount returns the global record count: the max over fields of
// each field's record count. This is the offset the next Put hands to the
// segment writer.
func (i *Index) RecordCount() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.recordCount
}

// Field returns the reader for one field, if the field exists.
func (i *Index) Field(name string) (*FieldReader, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	field, ok := i.fields[name]
	return field, ok
}

// Fields returns a snapshot of the field map. The FieldReaders themselves
// are shared, not copied.
func (i *Index) Fields() map[string]*FieldReader {
	i.mu.RLock()
	defer i.mu.RUnlock()

	fields := make(map[string]*FieldReader, len(i.fields))
	for name, field := range i.fields {
		fields[name] = field
	}
	return fields
}

// Close releases every field's segment readers. The index cannot be used
// afterwards.
func (i *Index) Close() error {
	if !i.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	var err error
	for _, field := range i.fields {
		err = multierr.Append(err, field.Close())
	}

	i.log.Infow("Index closed", "path", i.path)
	return err
}
