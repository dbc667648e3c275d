package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/utils/unittest"
)

func TestChallengeQueues(t *testing.T) {
	var observed int
	queues := newChallengeQueues(func(size int) { observed = size })

	a := unittest.ChallengeIDFixture()
	b := unittest.ChallengeIDFixture()

	// the first event of a challenge requests a drainer, later ones do not
	require.True(t, queues.Push(&dispute.Queried{ID: a, Idx1: 0, Idx2: 8}))
	require.False(t, queues.Push(&dispute.Queried{ID: a, Idx1: 0, Idx2: 4}))
	require.True(t, queues.Push(&dispute.Queried{ID: b, Idx1: 0, Idx2: 2}))
	assert.Equal(t, 3, queues.Len())
	assert.Equal(t, 3, observed)

	ev, ok := queues.Pop(a)
	require.True(t, ok)
	assert.Equal(t, uint64(8), ev.(*dispute.Queried).Idx2)
	ev, ok = queues.Pop(a)
	require.True(t, ok)
	assert.Equal(t, uint64(4), ev.(*dispute.Queried).Idx2)

	// an empty queue releases its drainer
	_, ok = queues.Pop(a)
	require.False(t, ok)
	assert.Equal(t, 1, queues.Len())
	assert.Equal(t, 1, observed)
	require.True(t, queues.Push(&dispute.Queried{ID: a, Idx1: 0, Idx2: 1}))

	_, ok = queues.Pop(unittest.ChallengeIDFixture())
	assert.False(t, ok)
}

func TestCheckpoint(t *testing.T) {
	cp := newCheckpoint(5)
	assert.Equal(t, uint64(5), cp.Value())

	cp.Add(10)
	cp.Add(10)
	cp.Add(12)
	assert.Equal(t, uint64(10), cp.Value())

	// the lowest block with unhandled events holds the checkpoint back
	assert.Equal(t, uint64(10), cp.Done(12))
	assert.Equal(t, uint64(10), cp.Done(10))
	assert.Equal(t, uint64(12), cp.Done(10))

	cp.Add(11)
	assert.Equal(t, uint64(11), cp.Value())
	assert.Equal(t, uint64(12), cp.Done(11))
}
