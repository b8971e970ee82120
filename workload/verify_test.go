package workload

import (
	"testing"

	"github.com/nStangl/rw-memtable/memtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	tb := memtable.MustNew(4)
	require.NoError(t, tb.Upsert(100, 1000))
	require.NoError(t, tb.Upsert(200, 2000))

	final, err := verify(tb, []memtable.Element{{Key: 100, Value: 1000}, {Key: 200, Value: 2000}})
	require.NoError(t, err)
	assert.Equal(t, []memtable.Element{{Key: 100, Value: 1000}, {Key: 200, Value: 2000}}, final)

	// accepted key missing from the table
	_, err = verify(tb, []memtable.Element{{Key: 100, Value: 1000}, {Key: 200, Value: 2000}, {Key: 300, Value: 3000}})
	assert.ErrorContains(t, err, "key 300")
	assert.ErrorContains(t, err, "3 were accepted")

	// stale value
	_, err = verify(tb, []memtable.Element{{Key: 100, Value: 1000}, {Key: 200, Value: 2001}})
	assert.ErrorContains(t, err, "key 200")
}
