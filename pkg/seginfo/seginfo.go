// Package seginfo defines the segment directory naming convention and its
// parser.
//
// Directory name format: <uuid>.<offset>.<count>
//
// Where:
//   - uuid: the hyphenated time-based UUID assigned when the segment was written.
//   - offset: a base-10 unsigned 64-bit integer, the segment's global
//     starting document id.
//   - count: a base-10 unsigned 32-bit integer, the number of documents in
//     the segment's batch.
//
// Example directory names:
//
//	2f1c3a18-5b77-11ee-8c99-0242ac120002.0.2
//	9d4e6f30-5b77-11ee-8c99-0242ac120002.2.1
//
// While a segment is being written it lives under <uuid>.temp. Temp names
// do not parse, and neither do foreign files dropped into a field
// directory. Discovery loads exactly the set of names Parse accepts, which
// is what makes the final rename the single point of segment visibility.
package seginfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"
)

// tempSuffix marks an in-flight segment directory.
const tempSuffix = "temp"

// Info holds the three components encoded in a committed segment's
// directory name.
type Info struct {
	// UUID is the segment's identity. A segment already present in a
	// reader's map is never re-opened, keyed by this value.
	UUID uuid.UUID

	// Offset is the global document id assigned to the segment's first
	// local document. Global ids are Offset + local id.
	Offset uint64

	// Count is the number of documents the segment's batch contained.
	Count uint32
}

// Name formats the final directory name for a committed segment.
func Name(id uuid.UUID, offset uint64, count uint32) string {
	return fmt.Sprintf("%s.%d.%d", id.String(), offset, count)
}

// TempName formats the directory name a segment occupies while its files
// are still being written.
func TempName(id uuid.UUID) string {
	return fmt.Sprintf("%s.%s", id.String(), tempSuffix)
}

// Parse decodes a directory name into its Info components. It returns an
// error for anything that is not exactly a hyphenated UUID, an unsigned
// 64-bit offset, and an unsigned 32-bit count joined by dots. Callers
// treat a parse failure as "not a segment" and skip the entry; the error
// is informational only.
func Parse(name string) (Info, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 {
		return Info{}, fmt.Errorf("segment name %q does not have three dot-separated parts", name)
	}

	id, err := uuid.FromString(parts[0])
	if err != nil {
		return Info{}, fmt.Errorf("segment name %q has an invalid uuid: %w", name, err)
	}

	offset, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Info{}, fmt.Errorf("segment name %q has an invalid offset: %w", name, err)
	}

	count, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Info{}, fmt.Errorf("segment name %q has an invalid count: %w", name, err)
	}

	return Info{UUID: id, Offset: offset, Count: uint32(count)}, nil
}

// End returns the first global document id past this segment, which is
// the value record counts aggregate over.
func (i Info) End() uint64 {
	return i.Offset + uint64(i.Count)
}
