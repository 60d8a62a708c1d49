// Package segment implements the immutable on-disk segment unit: the
// writer that streams a batch of documents into the six-file layout, and
// the reader that memory-maps a committed segment back into queryable
// form.
//
// A segment is written under a temporary directory name and renamed to
// its final <uuid>.<offset>.<count> name only after every file has been
// flushed and closed. The rename is the single commit point: readers
// either see the whole segment or nothing, and a crash mid-write leaves
// only an ignorable ".temp" directory behind.
package segment

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/blevesearch/vellum"
	"github.com/gofrs/uuid"
	"github.com/golang/snappy"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/errors"
	"github.com/iamNilotpal/ember/pkg/filesys"
	"github.com/iamNilotpal/ember/pkg/options"
	"github.com/iamNilotpal/ember/pkg/seginfo"
)

// Config carries the shared dependencies every segment write needs.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Write persists one batch of documents as a new segment, one directory
// per field that occurs in the batch. All per-field writers share the
// same segment UUID and the same newOffset, the global document id base
// supplied by the index. Fields are written in parallel, bounded by the
// configured writer concurrency; the first error wins, but an error in
// one field does not interrupt the others.
//
// An empty batch performs no work and creates no directories.
func Write(config *Config, newOffset uint64, documents []*document.Document) error {
	if config == nil || config.Options == nil || config.Logger == nil {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "segment writer configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	docCount, fieldInfos := newTermMap(documents)
	if docCount == 0 {
		config.Logger.Infow("Skipping empty batch, no segment created")
		return nil
	}

	segmentUUID, err := uuid.NewV1()
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeInternal, "failed to generate segment uuid")
	}

	config.Logger.Infow(
		"Writing segment",
		"segment", segmentUUID.String(),
		"offset", newOffset,
		"documents", docCount,
		"fields", len(fieldInfos),
	)

	var group errgroup.Group
	if config.Options.WriterConcurrency > 0 {
		group.SetLimit(config.Options.WriterConcurrency)
	}

	for field, termMap := range fieldInfos {
		field, termMap := field, termMap
		group.Go(func() error {
			writer, err := newWriter(config, field, segmentUUID, newOffset, docCount)
			if err != nil {
				return err
			}

			if err := writer.writeTerms(termMap); err != nil {
				// Leave the temp directory for an external sweep; readers
				// never parse its name so it stays invisible.
				_ = writer.closeFiles()
				return err
			}

			return writer.finish()
		})
	}

	return group.Wait()
}

// writer streams one field's TermMap into the six files of a single
// segment directory. It owns disjoint file handles and no shared state,
// which is what lets per-field writers run without synchronization.
type writer struct {
	field     string
	tempPath  string
	finalPath string
	log       *zap.SugaredLogger

	fstFile  *os.File
	docsFile *os.File
	doxFile  *os.File
	poxFile  *os.File
	posxFile *os.File
	posiFile *os.File

	fstBuf     *bufio.Writer
	fstBuilder *vellum.Builder
	docsWriter *bufio.Writer
	doxWriter  *snappy.Writer
	poxWriter  *snappy.Writer
	posxWriter *snappy.Writer
	posiWriter *snappy.Writer
}

// newWriter creates the temp directory for one (field, segment) pair and
// opens the six file writers inside it. The final directory name is fixed
// up front; it only comes into play at commit time.
func newWriter(config *Config, field string, segmentUUID uuid.UUID, offset uint64, count uint32) (*writer, error) {
	fieldPath := filepath.Join(config.Options.DataDir, field)

	w := &writer{
		field:     field,
		tempPath:  filepath.Join(fieldPath, seginfo.TempName(segmentUUID)),
		finalPath: filepath.Join(fieldPath, seginfo.Name(segmentUUID, offset, count)),
		log:       config.Logger,
	}

	if err := filesys.CreateDir(w.tempPath, config.Options.DirPermission); err != nil {
		return nil, errors.NewStorageError(
			err, errors.ClassifyOSError(err), "failed to create segment temp directory",
		).WithField(field).WithPath(w.tempPath)
	}

	var err error
	if w.fstFile, err = w.createFile(fileFST); err != nil {
		return nil, err
	}
	if w.docsFile, err = w.createFile(fileDocs); err != nil {
		return nil, err
	}
	if w.doxFile, err = w.createFile(fileDox); err != nil {
		return nil, err
	}
	if w.poxFile, err = w.createFile(filePox); err != nil {
		return nil, err
	}
	if w.posxFile, err = w.createFile(filePosx); err != nil {
		return nil, err
	}
	if w.posiFile, err = w.createFile(filePosi); err != nil {
		return nil, err
	}

	w.fstBuf = bufio.NewWriter(w.fstFile)
	if w.fstBuilder, err = vellum.New(w.fstBuf, nil); err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeInternal, "failed to create term dictionary builder",
		).WithField(field).WithFileName(fileFST).WithPath(w.tempPath)
	}

	w.docsWriter = bufio.NewWriter(w.docsFile)
	w.doxWriter = snappy.NewBufferedWriter(w.doxFile)
	w.poxWriter = snappy.NewBufferedWriter(w.poxFile)
	w.posxWriter = snappy.NewBufferedWriter(w.posxFile)
	w.posiWriter = snappy.NewBufferedWriter(w.posiFile)

	return w, nil
}

// createFile opens one of the six segment files inside the temp directory.
func (w *writer) createFile(name string) (*os.File, error) {
	path := filepath.Join(w.tempPath, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ClassifyOSError(err), "failed to create segment file",
		).WithField(w.field).WithFileName(name).WithPath(path)
	}
	return file, nil
}

// writeTerms streams the term map in ascending byte order. For each term
// it records the term's index in the dictionary, its document bitmap in
// docs (length in dox), and its position vectors in posx/posi with the
// starting posx offset in pox.
func (w *writer) writeTerms(terms TermMap) error {
	var termIdx uint64
	var posxOffset, posiOffset uint32

	for _, term := range terms.sortedTerms() {
		infos := terms[term]

		if err := w.fstBuilder.Insert([]byte(term), termIdx); err != nil {
			return errors.NewStorageError(
				err, errors.ErrorCodeTermOrder, "term dictionary rejected key",
			).WithField(w.field).WithFileName(fileFST).WithDetail("term", term)
		}

		rbSize, err := infos.DocIDs.WriteTo(w.docsWriter)
		if err != nil {
			return w.writeError(err, fileDocs, "failed to serialize document bitmap")
		}

		if err := binary.Write(w.doxWriter, binary.LittleEndian, uint32(rbSize)); err != nil {
			return w.writeError(err, fileDox, "failed to write bitmap length")
		}

		if err := binary.Write(w.poxWriter, binary.LittleEndian, posxOffset); err != nil {
			return w.writeError(err, filePox, "failed to write position index offset")
		}

		// One posx record per document in bitmap order; the bitmap and the
		// position vectors were appended in the same order by the builder.
		for _, positions := range infos.Positions {
			if err := binary.Write(w.posxWriter, binary.LittleEndian, posiOffset); err != nil {
				return w.writeError(err, filePosx, "failed to write position offset")
			}
			if err := binary.Write(w.posxWriter, binary.LittleEndian, uint32(len(positions))); err != nil {
				return w.writeError(err, filePosx, "failed to write position count")
			}
			posxOffset += posxRecordSize

			for _, position := range positions {
				if err := binary.Write(w.posiWriter, binary.LittleEndian, position); err != nil {
					return w.writeError(err, filePosi, "failed to write position")
				}
				posiOffset += posiRecordSize
			}
		}

		termIdx++
	}

	return nil
}

// finish flushes every writer, closes the underlying files, and commits
// the segment by renaming the temp directory to its final name.
func (w *writer) finish() error {
	if err := w.fstBuilder.Close(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, fileFST, "failed to finalize term dictionary")
	}
	if err := w.fstBuf.Flush(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, fileFST, "failed to flush term dictionary")
	}

	if err := w.posxWriter.Close(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, filePosx, "failed to flush position index")
	}
	if err := w.posiWriter.Close(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, filePosi, "failed to flush positions")
	}
	if err := w.poxWriter.Close(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, filePox, "failed to flush term position offsets")
	}
	if err := w.docsWriter.Flush(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, fileDocs, "failed to flush document bitmaps")
	}
	if err := w.doxWriter.Close(); err != nil {
		_ = w.closeFiles()
		return w.writeError(err, fileDox, "failed to flush bitmap lengths")
	}

	if err := w.closeFiles(); err != nil {
		return w.writeError(err, "", "failed to close segment files")
	}

	if err := filesys.Rename(w.tempPath, w.finalPath); err != nil {
		return errors.NewStorageError(
			err, errors.ClassifyOSError(err), "failed to commit segment",
		).WithField(w.field).WithPath(w.finalPath).WithDetail("tempPath", w.tempPath)
	}

	w.log.Infow("Segment committed", "field", w.field, "path", w.finalPath)
	return nil
}

// closeFiles closes all six file handles, keeping every failure.
func (w *writer) closeFiles() error {
	var err error
	for _, file := range []*os.File{w.fstFile, w.docsFile, w.doxFile, w.poxFile, w.posxFile, w.posiFile} {
		if file != nil {
			err = multierr.Append(err, file.Close())
		}
	}
	return err
}

// writeError wraps a low-level write failure with the segment context.
func (w *writer) writeError(err error, fileName, msg string) error {
	se := errors.NewStorageError(err, errors.ClassifyOSError(err), msg).
		WithField(w.field).
		WithPath(w.tempPath)
	if fileName != "" {
		se = se.WithFileName(fileName)
	}
	return se
}
