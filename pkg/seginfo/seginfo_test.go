package seginfo_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ember/pkg/seginfo"
)

func TestNameRoundTrip(t *testing.T) {
	id, err := uuid.NewV1()
	require.NoError(t, err)

	name := seginfo.Name(id, 42, 7)
	info, err := seginfo.Parse(name)
	require.NoError(t, err)

	require.Equal(t, id, info.UUID)
	require.Equal(t, uint64(42), info.Offset)
	require.Equal(t, uint32(7), info.Count)
	require.Equal(t, uint64(49), info.End())
}

func TestParseRejectsTempNames(t *testing.T) {
	id, err := uuid.NewV1()
	require.NoError(t, err)

	_, err = seginfo.Parse(seginfo.TempName(id))
	require.Error(t, err)
}

func TestParseRejectsForeignNames(t *testing.T) {
	id, err := uuid.NewV1()
	require.NoError(t, err)

	for _, name := range []string{
		"",
		"not-a-segment",
		"a.b",
		"a.b.c.d",
		"not-a-uuid.0.1",
		id.String() + ".x.1",
		id.String() + ".0.x",
		id.String() + ".-1.1",
		id.String() + ".0.4294967296", // count exceeds uint32
	} {
		_, err := seginfo.Parse(name)
		require.Error(t, err, "name %q should not parse", name)
	}
}

func TestParseZeroValues(t *testing.T) {
	id, err := uuid.NewV1()
	require.NoError(t, err)

	info, err := seginfo.Parse(seginfo.Name(id, 0, 0))
	require.NoError(t, err)
	require.Equal(t, uint64(0), info.Offset)
	require.Equal(t, uint32(0), info.Count)
}
