package segment

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/blevesearch/vellum"
	"github.com/golang/snappy"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ember/pkg/errors"
)

// Reader provides term lookups over one committed field-segment
// directory. The term dictionary is memory-mapped and every term's
// document bitmap is loaded eagerly; the three position files are loaded
// only when the first positional lookup arrives, since the snappy framing
// rules out random access without decoding the streams.
//
// A Reader is immutable after Open apart from the lazy position load,
// and safe for concurrent lookups.
type Reader struct {
	path   string
	offset uint64
	count  uint32
	log    *zap.SugaredLogger

	fst      *vellum.FST
	termDocs []*roaring.Bitmap

	posMu sync.Mutex
	pos   *positionIndex
}

// posEntry is one decoded posx record: where one document's positions
// start in posi, and how many there are.
type posEntry struct {
	offset uint32
	length uint32
}

// positionIndex holds the fully decoded contents of pox, posx and posi.
type positionIndex struct {
	pox  []uint32   // per-term starting byte offset into posx
	posx []posEntry // one record per (term, document) pair
	posi []uint32   // flat position values
}

// OpenReader opens one field-segment directory. The offset and count come
// from the directory name and are carried so callers can translate local
// document ids into global ones.
func OpenReader(path string, offset uint64, count uint32, log *zap.SugaredLogger) (*Reader, error) {
	fst, err := vellum.Open(filepath.Join(path, fileFST))
	if err != nil {
		return nil, errors.NewIndexError(
			err, errors.ErrorCodeDictionaryOpen, "failed to open term dictionary",
		).WithSegment(filepath.Base(path)).WithOperation("Open").WithDetail("path", path)
	}

	reader := &Reader{
		path:   path,
		offset: offset,
		count:  count,
		log:    log,
		fst:    fst,
	}

	if err := reader.loadTermDocs(); err != nil {
		_ = fst.Close()
		return nil, err
	}

	return reader, nil
}

// loadTermDocs streams dox and docs together: for every term index, a u32
// bitmap length from dox followed by exactly that many bitmap bytes from
// docs.
func (r *Reader) loadTermDocs() error {
	termCount := r.fst.Len()
	r.termDocs = make([]*roaring.Bitmap, 0, termCount)

	doxFile, err := r.openFile(fileDox)
	if err != nil {
		return err
	}
	defer doxFile.Close()

	docsFile, err := r.openFile(fileDocs)
	if err != nil {
		return err
	}
	defer docsFile.Close()

	doxReader := snappy.NewReader(bufio.NewReader(doxFile))
	docsReader := bufio.NewReader(docsFile)

	for n := 0; n < termCount; n++ {
		var size uint32
		if err := binary.Read(doxReader, binary.LittleEndian, &size); err != nil {
			return r.corruptError(err, fileDox, fmt.Sprintf("bitmap length missing for term %d", n))
		}

		buffer := make([]byte, size)
		if _, err := io.ReadFull(docsReader, buffer); err != nil {
			return r.corruptError(err, fileDocs, fmt.Sprintf("bitmap bytes missing for term %d", n))
		}

		bitmap := roaring.New()
		if _, err := bitmap.ReadFrom(bytes.NewReader(buffer)); err != nil {
			return r.corruptError(err, fileDocs, fmt.Sprintf("bitmap for term %d failed to deserialize", n))
		}

		r.termDocs = append(r.termDocs, bitmap)
	}

	return nil
}

// Docs returns the local document-id bitmap for term, or ok=false when
// the segment does not contain the term. The returned bitmap is the
// reader's own copy; callers must not mutate it.
func (r *Reader) Docs(term []byte) (*roaring.Bitmap, bool, error) {
	termIdx, ok, err := r.fst.Get(term)
	if err != nil {
		return nil, false, errors.NewIndexError(
			err, errors.ErrorCodeDictionaryOpen, "term dictionary lookup failed",
		).WithSegment(filepath.Base(r.path)).WithOperation("Docs").WithTerm(string(term))
	}
	if !ok {
		return nil, false, nil
	}

	if termIdx >= uint64(len(r.termDocs)) {
		return nil, false, r.corruptError(
			nil, fileDox, fmt.Sprintf("term index %d out of range, segment has %d terms", termIdx, len(r.termDocs)),
		)
	}

	return r.termDocs[termIdx], true, nil
}

// Positions returns the position vector recorded for term in the local
// document localDoc, in the order the positions were appended at index
// time. ok=false means the term is absent or the document does not
// contain it.
func (r *Reader) Positions(term []byte, localDoc uint32) ([]uint32, bool, error) {
	bitmap, ok, err := r.Docs(term)
	if err != nil || !ok {
		return nil, false, err
	}
	if !bitmap.Contains(localDoc) {
		return nil, false, nil
	}

	termIdx, _, err := r.fst.Get(term)
	if err != nil {
		return nil, false, errors.NewIndexError(
			err, errors.ErrorCodeDictionaryOpen, "term dictionary lookup failed",
		).WithSegment(filepath.Base(r.path)).WithOperation("Positions").WithTerm(string(term))
	}

	pos, err := r.positions()
	if err != nil {
		return nil, false, err
	}

	if termIdx >= uint64(len(pos.pox)) {
		return nil, false, r.corruptError(
			nil, filePox, fmt.Sprintf("term index %d out of range, pox has %d records", termIdx, len(pos.pox)),
		)
	}

	// Rank gives the number of set bits <= localDoc; the document's posx
	// record sits one fewer than that many entries past the term's
	// starting offset.
	docRank := bitmap.Rank(localDoc) - 1
	posxIdx := uint64(pos.pox[termIdx])/posxRecordSize + docRank
	if posxIdx >= uint64(len(pos.posx)) {
		return nil, false, r.corruptError(
			nil, filePosx, fmt.Sprintf("posx record %d out of range, file has %d records", posxIdx, len(pos.posx)),
		)
	}

	entry := pos.posx[posxIdx]
	start := uint64(entry.offset) / posiRecordSize
	end := start + uint64(entry.length)
	if end > uint64(len(pos.posi)) {
		return nil, false, r.corruptError(
			nil, filePosi, fmt.Sprintf("position range [%d, %d) out of range, file has %d values", start, end, len(pos.posi)),
		)
	}

	return pos.posi[start:end], true, nil
}

// positions loads pox, posx and posi on first use.
func (r *Reader) positions() (*positionIndex, error) {
	r.posMu.Lock()
	defer r.posMu.Unlock()

	if r.pos != nil {
		return r.pos, nil
	}

	pox, err := r.readSnappyU32s(filePox)
	if err != nil {
		return nil, err
	}
	if len(pox) != r.fst.Len() {
		return nil, r.corruptError(
			nil, filePox, fmt.Sprintf("pox has %d records, segment has %d terms", len(pox), r.fst.Len()),
		)
	}

	posxRaw, err := r.readSnappyU32s(filePosx)
	if err != nil {
		return nil, err
	}
	if len(posxRaw)%2 != 0 {
		return nil, r.corruptError(nil, filePosx, "posx does not contain whole (offset, length) pairs")
	}

	posx := make([]posEntry, 0, len(posxRaw)/2)
	for i := 0; i < len(posxRaw); i += 2 {
		posx = append(posx, posEntry{offset: posxRaw[i], length: posxRaw[i+1]})
	}

	posi, err := r.readSnappyU32s(filePosi)
	if err != nil {
		return nil, err
	}

	r.pos = &positionIndex{pox: pox, posx: posx, posi: posi}
	r.log.Infow("Loaded segment positions", "segment", filepath.Base(r.path), "records", len(posx))
	return r.pos, nil
}

// readSnappyU32s decodes one snappy-framed file into its little-endian
// u32 values.
func (r *Reader) readSnappyU32s(name string) ([]uint32, error) {
	file, err := r.openFile(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	raw, err := io.ReadAll(snappy.NewReader(bufio.NewReader(file)))
	if err != nil {
		return nil, r.corruptError(err, name, "failed to decompress")
	}
	if len(raw)%4 != 0 {
		return nil, r.corruptError(nil, name, fmt.Sprintf("length %d is not a whole number of u32 records", len(raw)))
	}

	values := make([]uint32, len(raw)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return values, nil
}

// Terms returns every term in the segment in dictionary order, which is
// ascending byte order.
func (r *Reader) Terms() ([]string, error) {
	terms := make([]string, 0, r.fst.Len())

	itr, err := r.fst.Iterator(nil, nil)
	for err == nil {
		key, _ := itr.Current()
		terms = append(terms, string(key))
		err = itr.Next()
	}
	if err != vellum.ErrIteratorDone {
		return nil, errors.NewIndexError(
			err, errors.ErrorCodeDictionaryOpen, "term dictionary iteration failed",
		).WithSegment(filepath.Base(r.path)).WithOperation("Terms")
	}

	return terms, nil
}

// TermCount returns the number of distinct terms in the segment.
func (r *Reader) TermCount() int {
	return r.fst.Len()
}

// Offset returns the segment's global document id base.
func (r *Reader) Offset() uint64 {
	return r.offset
}

// Count returns the number of documents in the segment's batch.
func (r *Reader) Count() uint32 {
	return r.count
}

// Close releases the memory-mapped term dictionary.
func (r *Reader) Close() error {
	return r.fst.Close()
}

func (r *Reader) openFile(name string) (*os.File, error) {
	path := filepath.Join(r.path, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ClassifyOSError(err), "failed to open segment file",
		).WithFileName(name).WithPath(path).WithSegment(filepath.Base(r.path))
	}
	return file, nil
}

func (r *Reader) corruptError(err error, fileName, msg string) error {
	return errors.NewStorageError(
		err, errors.ErrorCodeSegmentCorrupted, msg,
	).WithFileName(fileName).WithPath(r.path).WithSegment(filepath.Base(r.path))
}
