package segment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/options"
	"github.com/iamNilotpal/ember/pkg/seginfo"
)

func testConfig(t *testing.T) *Config {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	return &Config{Options: &opts, Logger: zap.NewNop().Sugar()}
}

// openOnlySegment locates the single committed segment of a field and
// opens a reader over it.
func openOnlySegment(t *testing.T, config *Config, field string) (*Reader, seginfo.Info) {
	t.Helper()

	fieldPath := filepath.Join(config.Options.DataDir, field)
	entries, err := os.ReadDir(fieldPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := seginfo.Parse(entries[0].Name())
	require.NoError(t, err)

	reader, err := OpenReader(filepath.Join(fieldPath, entries[0].Name()), info.Offset, info.Count, config.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	return reader, info
}

func TestWriteSingleDocumentSingleField(t *testing.T) {
	config := testConfig(t)

	doc := document.New()
	doc.Field("id").Term("id1", 0)

	require.NoError(t, Write(config, 0, []*document.Document{doc}))

	reader, info := openOnlySegment(t, config, "id")
	require.Equal(t, uint64(0), info.Offset)
	require.Equal(t, uint32(1), info.Count)

	terms, err := reader.Terms()
	require.NoError(t, err)
	require.Equal(t, []string{"id1"}, terms)

	bitmap, ok, err := reader.Docs([]byte("id1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []uint32{0}, bitmap.ToArray())
}

func TestWriteRoundTripBitmapsAndOrdering(t *testing.T) {
	config := testConfig(t)

	doc1 := document.New()
	doc1.Field("title").Term("my", 0).Term("title", 1)

	doc2 := document.New()
	doc2.Field("title").Term("my", 0).Term("second", 1).Term("title", 2).Term("titles", 2)

	require.NoError(t, Write(config, 0, []*document.Document{doc1, doc2}))

	reader, info := openOnlySegment(t, config, "title")
	require.Equal(t, uint32(2), info.Count)

	// Terms come back in ascending byte order with dense indexes.
	terms, err := reader.Terms()
	require.NoError(t, err)
	require.Equal(t, []string{"my", "second", "title", "titles"}, terms)

	for i, term := range terms {
		termIdx, ok, err := reader.fst.Get([]byte(term))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint64(i), termIdx)
	}

	expected := map[string][]uint32{
		"my":     {0, 1},
		"second": {1},
		"title":  {0, 1},
		"titles": {1},
	}
	for term, docs := range expected {
		bitmap, ok, err := reader.Docs([]byte(term))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, docs, bitmap.ToArray(), "bitmap mismatch for term %q", term)
	}

	_, ok, err := reader.Docs([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriteRoundTripPositions(t *testing.T) {
	config := testConfig(t)

	doc1 := document.New()
	doc1.Field("title").Term("my", 0).Term("title", 1)

	doc2 := document.New()
	doc2.Field("title").Term("my", 0).Term("second", 1).Term("title", 2).Term("titles", 2)

	require.NoError(t, Write(config, 0, []*document.Document{doc1, doc2}))

	reader, _ := openOnlySegment(t, config, "title")

	cases := []struct {
		term      string
		doc       uint32
		positions []uint32
	}{
		{"title", 0, []uint32{1}},
		{"title", 1, []uint32{2}},
		{"titles", 1, []uint32{2}},
		{"my", 0, []uint32{0}},
		{"my", 1, []uint32{0}},
		{"second", 1, []uint32{1}},
	}
	for _, tc := range cases {
		positions, ok, err := reader.Positions([]byte(tc.term), tc.doc)
		require.NoError(t, err)
		require.True(t, ok, "term %q doc %d", tc.term, tc.doc)
		require.Equal(t, tc.positions, positions, "term %q doc %d", tc.term, tc.doc)
	}

	// Document 0 never contained "second".
	_, ok, err := reader.Positions([]byte("second"), 0)
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown term.
	_, ok, err = reader.Positions([]byte("missing"), 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriteRoundTripRepeatedPositions(t *testing.T) {
	config := testConfig(t)

	// Positions stay in append order: no sorting, no deduplication.
	doc := document.New()
	doc.Field("body").Term("word", 7).Term("word", 3).Term("word", 3)

	require.NoError(t, Write(config, 0, []*document.Document{doc}))

	reader, _ := openOnlySegment(t, config, "body")
	positions, ok, err := reader.Positions([]byte("word"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []uint32{7, 3, 3}, positions)
}

func TestWriteEmptyBatchCreatesNothing(t *testing.T) {
	config := testConfig(t)

	require.NoError(t, Write(config, 0, nil))
	require.NoError(t, Write(config, 0, []*document.Document{}))

	entries, err := os.ReadDir(config.Options.DataDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteEncodesOffsetAndCountInName(t *testing.T) {
	config := testConfig(t)

	doc1 := document.New()
	doc1.Field("title").Term("third", 1)

	require.NoError(t, Write(config, 2, []*document.Document{doc1}))

	_, info := openOnlySegment(t, config, "title")
	require.Equal(t, uint64(2), info.Offset)
	require.Equal(t, uint32(1), info.Count)
	require.Equal(t, uint64(3), info.End())
}

func TestWriteParallelFieldsShareOneSegmentUUID(t *testing.T) {
	config := testConfig(t)

	doc := document.New()
	doc.Field("title").Term("third", 1)
	doc.Field("id").Term("id3", 0)
	doc.Field("body").Term("words", 0)

	require.NoError(t, Write(config, 5, []*document.Document{doc}))

	var ids []string
	for _, field := range []string{"title", "id", "body"} {
		entries, err := os.ReadDir(filepath.Join(config.Options.DataDir, field))
		require.NoError(t, err)
		require.Len(t, entries, 1)

		info, err := seginfo.Parse(entries[0].Name())
		require.NoError(t, err)
		require.Equal(t, uint64(5), info.Offset)
		require.Equal(t, uint32(1), info.Count)
		ids = append(ids, info.UUID.String())
	}

	require.Equal(t, ids[0], ids[1])
	require.Equal(t, ids[0], ids[2])
}

func TestWriteRejectsNilConfig(t *testing.T) {
	require.Error(t, Write(nil, 0, nil))
}

func TestReaderReportsOffsetAndCount(t *testing.T) {
	config := testConfig(t)

	doc := document.New()
	doc.Field("id").Term("id1", 0)
	require.NoError(t, Write(config, 9, []*document.Document{doc}))

	reader, _ := openOnlySegment(t, config, "id")
	require.Equal(t, uint64(9), reader.Offset())
	require.Equal(t, uint32(1), reader.Count())
	require.Equal(t, 1, reader.TermCount())
}
