package document_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ember/pkg/document"
)

func TestFieldIsCreatedOnFirstUse(t *testing.T) {
	doc := document.New()
	require.Empty(t, doc.Fields())

	terms := doc.Field("title")
	require.NotNil(t, terms)
	require.Len(t, doc.Fields(), 1)

	// Same field name returns the same term set.
	require.Equal(t, terms, doc.Field("title"))
	require.Len(t, doc.Fields(), 1)
}

func TestTermChainingAccumulatesPositions(t *testing.T) {
	doc := document.New()
	doc.Field("title").Term("my", 0).Term("title", 1).Term("my", 5)

	terms := doc.Field("title")
	require.Equal(t, []uint32{0, 5}, terms.Positions("my"))
	require.Equal(t, []uint32{1}, terms.Positions("title"))
	require.Nil(t, terms.Positions("absent"))
	require.Equal(t, 2, terms.Len())
}

func TestPositionsKeepAppendOrder(t *testing.T) {
	doc := document.New()
	doc.Field("body").Term("word", 9).Term("word", 3).Term("word", 3)

	// Not sorted, not deduplicated.
	require.Equal(t, []uint32{9, 3, 3}, doc.Field("body").Positions("word"))
}

func TestSortedTermsAscendingByteOrder(t *testing.T) {
	doc := document.New()
	doc.Field("title").
		Term("titles", 2).
		Term("my", 0).
		Term("title", 1).
		Term("second", 3)

	require.Equal(t,
		[]string{"my", "second", "title", "titles"},
		doc.Field("title").SortedTerms(),
	)
}
