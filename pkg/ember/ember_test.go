package ember_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ember/pkg/document"
	"github.com/iamNilotpal/ember/pkg/ember"
	"github.com/iamNilotpal/ember/pkg/options"
	"github.com/iamNilotpal/ember/pkg/query"
)

func newInstance(t *testing.T, dataDir string) *ember.Instance {
	t.Helper()

	instance, err := ember.NewInstance(
		context.Background(), "ember-test",
		options.WithDataDir(dataDir),
		options.WithWriterConcurrency(2),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close(context.Background()) })

	return instance
}

func TestPutAndFind(t *testing.T) {
	ctx := context.Background()
	instance := newInstance(t, t.TempDir())

	doc1 := document.New()
	doc1.Field("id").Term("id1", 0)
	doc1.Field("title").Term("my", 0).Term("title", 1)

	doc2 := document.New()
	doc2.Field("id").Term("id2", 0)
	doc2.Field("title").Term("my", 0).Term("second", 1).Term("title", 2).Term("titles", 2)

	require.NoError(t, instance.Put(ctx, []*document.Document{doc1, doc2}))
	require.Equal(t, uint64(2), instance.RecordCount())

	result, err := instance.Find(ctx, query.NewTermQuery("title", "my"))
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, result.ToArray())

	result, err = instance.Find(ctx, query.NewTermQuery("title", "titles"))
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, result.ToArray())

	result, err = instance.Find(ctx, query.NewTermQuery("title", "absent"))
	require.NoError(t, err)
	require.True(t, result.IsEmpty())
}

func TestFindAcrossBatches(t *testing.T) {
	ctx := context.Background()
	instance := newInstance(t, t.TempDir())

	doc1 := document.New()
	doc1.Field("title").Term("shared", 0)
	require.NoError(t, instance.Put(ctx, []*document.Document{doc1}))

	doc2 := document.New()
	doc2.Field("title").Term("shared", 3).Term("unique", 4)
	require.NoError(t, instance.Put(ctx, []*document.Document{doc2}))

	// The second batch's document carries a global id past the first's.
	result, err := instance.Find(ctx, query.NewTermQuery("title", "shared"))
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, result.ToArray())

	result, err = instance.Find(ctx, query.NewTermQuery("title", "unique"))
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, result.ToArray())
}

func TestFindBooleanOverIndex(t *testing.T) {
	ctx := context.Background()
	instance := newInstance(t, t.TempDir())

	doc1 := document.New()
	doc1.Field("title").Term("my", 0).Term("title", 1)
	doc2 := document.New()
	doc2.Field("title").Term("my", 0).Term("second", 1).Term("title", 2)
	require.NoError(t, instance.Put(ctx, []*document.Document{doc1, doc2}))

	q := query.NewBooleanQuery(0).
		Term("title", "my", query.Must).
		Term("title", "second", query.MustNot)

	result, err := instance.Find(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, result.ToArray())
}

func TestReopenInstance(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	first := newInstance(t, dataDir)
	doc := document.New()
	doc.Field("id").Term("id1", 0)
	require.NoError(t, first.Put(ctx, []*document.Document{doc}))
	require.NoError(t, first.Close(ctx))

	second := newInstance(t, dataDir)
	require.Equal(t, uint64(1), second.RecordCount())

	result, err := second.Find(ctx, query.NewTermQuery("id", "id1"))
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, result.ToArray())
}

func TestClosedInstanceRejectsOperations(t *testing.T) {
	ctx := context.Background()
	instance := newInstance(t, t.TempDir())
	require.NoError(t, instance.Close(ctx))

	require.Error(t, instance.Put(ctx, nil))
	_, err := instance.Find(ctx, query.NewTermQuery("id", "id1"))
	require.Error(t, err)
}
