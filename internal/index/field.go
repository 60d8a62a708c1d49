package index

import (
	"path/filepath"

	"github.com/RoaringBitmap/roaring"
	"github.com/gofrs/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ember/internal/segment"
	"github.com/iamNilotpal/ember/pkg/filesys"
	"github.com/iamNilotpal/ember/pkg/seginfo"
)

// FieldReader owns every committed segment of one field. Its segment map
// is grow-only for the life of the process: reload opens segments it has
// not seen before and never drops one, since this design has no deletion
// path.
type FieldReader struct {
	name string
	path string
	log  *zap.SugaredLogger

	segments    map[uuid.UUID]*segment.Reader
	recordCount uint64
}

// NewFieldReader creates a reader for one field directory. No segments
// are opened until the first Reload.
func NewFieldReader(indexPath, name string, log *zap.SugaredLogger) *FieldReader {
	return &FieldReader{
		name:     name,
		path:     filepath.Join(indexPath, name),
		log:      log,
		segments: make(map[uuid.UUID]*segment.Reader),
	}
}

// Reload scans the field directory for committed segments. Directory
// names that parse as <uuid>.<offset>.<count> and are not already loaded
// are opened; everything else - in-flight ".temp" directories, foreign
// files - is skipped without comment. The record count is recomputed as
// the max of offset+count over all loaded segments.
func (f *FieldReader) Reload() error {
	names, err := filesys.ListSubdirs(f.path)
	if err != nil {
		return err
	}

	var recordCount uint64
	for _, name := range names {
		info, err := seginfo.Parse(name)
		if err != nil {
			continue
		}

		if _, loaded := f.segments[info.UUID]; !loaded {
			reader, err := segment.OpenReader(filepath.Join(f.path, name), info.Offset, info.Count, f.log)
			if err != nil {
				return err
			}
			f.segments[info.UUID] = reader
			f.log.Infow("Opened segment", "field", f.name, "segment", name)
		}

		if end := info.End(); end > recordCount {
			recordCount = end
		}
	}

	f.recordCount = recordCount
	return nil
}

// Docs returns the global document ids containing term, merged across
// every segment of the field. Each segment's local ids are shifted by its
// offset before the union. A term present in no segment yields an empty
// bitmap.
func (f *FieldReader) Docs(term []byte) (*roaring.Bitmap, error) {
	result := roaring.New()

	for _, reader := range f.segments {
		bitmap, ok, err := reader.Docs(term)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result.Or(roaring.AddOffset64(bitmap, int64(reader.Offset())))
	}

	return result, nil
}

// Positions returns the position vector for term in the document with the
// given global id, by routing to the segment whose id range contains it.
func (f *FieldReader) Positions(term []byte, globalDoc uint64) ([]uint32, bool, error) {
	for _, reader := range f.segments {
		offset := reader.Offset()
		if globalDoc < offset || globalDoc >= offset+uint64(reader.Count()) {
			continue
		}

		positions, ok, err := reader.Positions(term, uint32(globalDoc-offset))
		if err != nil {
			return nil, false, err
		}
		if ok {
			return positions, true, nil
		}
	}

	return nil, false, nil
}

// Name returns the field name.
func (f *FieldReader) Name() string {
	return f.name
}

// RecordCount returns max(offset + count) over the field's segments,
// which is the first global document id past everything this field has
// indexed.
func (f *FieldReader) RecordCount() uint64 {
	return f.recordCount
}

// SegmentIDs returns the UUIDs of every loaded segment.
func (f *FieldReader) SegmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(f.segments))
	for id := range f.segments {
		ids = append(ids, id)
	}
	return ids
}

// SegmentCount returns the number of loaded segments.
func (f *FieldReader) SegmentCount() int {
	return len(f.segments)
}

// Close releases every segment reader's resources.
func (f *FieldReader) Close() error {
	var err error
	for _, reader := range f.segments {
		err = multierr.Append(err, reader.Close())
	}
	return err
}
