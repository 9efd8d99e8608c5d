package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *fakeClock) {
	fc := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return newWithClock(fc.now), fc
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestGetOnEmptyStoreIsNotFound(t *testing.T) {
	s, _ := newTestStore()
	_, found, err := s.Get([]byte("key"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("key"), []byte("value"))
	got, found, err := s.Get([]byte("key"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", string(got))
}

func TestSetTwiceIsIdempotentWithSingleSet(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("v"))
	s.Set([]byte("k"), []byte("v"))
	assert.Equal(t, 1, s.Exists([][]byte{[]byte("k")}))
}

func TestSetNXSkipsWhenPresent(t *testing.T) {
	s, _ := newTestStore()
	assert.True(t, s.SetNX([]byte("k"), []byte("v1")))
	assert.False(t, s.SetNX([]byte("k"), []byte("v2")))
	got, _, _ := s.Get([]byte("k"))
	assert.Equal(t, "v1", string(got))
}

func TestGetSetReturnsPriorAndInstallsNew(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("old"))
	prev, hasPrev, err := s.GetSet([]byte("k"), []byte("new"))
	require.NoError(t, err)
	assert.True(t, hasPrev)
	assert.Equal(t, "old", string(prev))
	got, _, _ := s.Get([]byte("k"))
	assert.Equal(t, "new", string(got))
}

func TestGetSetOnListIsWrongType(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.RPush([]byte("k"), [][]byte{[]byte("a")})
	_, _, err := s.GetSet([]byte("k"), []byte("new"))
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestGetDelRemovesKey(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("v"))
	prev, hasPrev, err := s.GetDel([]byte("k"))
	require.NoError(t, err)
	assert.True(t, hasPrev)
	assert.Equal(t, "v", string(prev))
	assert.Equal(t, 0, s.Exists([][]byte{[]byte("k")}))
}

func TestMGetMixesFoundAndMissing(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("a"), []byte("1"))
	got := s.MGet([][]byte{[]byte("a"), []byte("b")})
	require.Len(t, got, 2)
	assert.Equal(t, "1", string(got[0]))
	assert.Nil(t, got[1])
}

func TestMSetSetsAllPairs(t *testing.T) {
	s, _ := newTestStore()
	s.MSet([][]byte{[]byte("a"), []byte("b")}, [][]byte{[]byte("1"), []byte("2")})
	assert.Equal(t, 2, s.Exists([][]byte{[]byte("a"), []byte("b")}))
}

func TestDelReturnsCountPresentBeforeCall(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("a"), []byte("1"))
	assert.Equal(t, 1, s.Del([][]byte{[]byte("a"), []byte("missing")}))
}

func TestIncrFromAbsentStartsAtDelta(t *testing.T) {
	s, _ := newTestStore()
	n, err := s.IncrBy([]byte("ctr"), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIncrAppliedNTimesReturnsSequence(t *testing.T) {
	s, _ := newTestStore()
	for i := int64(1); i <= 3; i++ {
		n, err := s.IncrBy([]byte("ctr"), 1)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	got, _, _ := s.Get([]byte("ctr"))
	assert.Equal(t, "3", string(got))
}

func TestIncrOnNonIntegerStringFails(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("abc"))
	_, err := s.IncrBy([]byte("k"), 1)
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestIncrCoercesParseableStringInPlace(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("10"))
	n, err := s.IncrBy([]byte("k"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
}

func TestIncrOnListIsWrongType(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.RPush([]byte("k"), [][]byte{[]byte("a")})
	_, err := s.IncrBy([]byte("k"), 1)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestLPushThenRPopYieldsArgumentOrder(t *testing.T) {
	s, _ := newTestStore()
	n, err := s.LPush([]byte("l"), [][]byte{[]byte("v1"), []byte("v2"), []byte("v3")})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, want := range []string{"v1", "v2", "v3"} {
		got, ok, err := s.RPop([]byte("l"), 1)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, want, string(got[0]))
	}
}

func TestRPushAppendsInArgumentOrder(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.RPush([]byte("l"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	got, ok, err := s.LPop([]byte("l"), 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, got)
}

func TestRPopWithCountReturnsTailFirst(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.RPush([]byte("l"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	got, ok, err := s.RPop([]byte("l"), 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("c"), []byte("b")}, got)
}

func TestLPopCountZeroReturnsNotFound(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.RPush([]byte("l"), [][]byte{[]byte("a")})
	_, ok, err := s.LPop([]byte("l"), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLPushOnWrongTypeFails(t *testing.T) {
	s, _ := newTestStore()
	s.Set([]byte("k"), []byte("v"))
	_, err := s.LPush([]byte("k"), [][]byte{[]byte("a")})
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestExpireOnAbsentKeyReturnsZeroAndDoesNotCreate(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, 0, s.Expire([]byte("k"), 10))
	assert.Equal(t, 0, s.Exists([][]byte{[]byte("k")}))
}

func TestExpireThenSweepRemovesKey(t *testing.T) {
	s, fc := newTestStore()
	s.Set([]byte("k"), []byte("v"))
	assert.Equal(t, 1, s.Expire([]byte("k"), 1))
	fc.advance(2 * time.Second)

	_, found, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, found, "expired key must read as absent even before sweep runs")
	assert.Equal(t, int64(-2), s.TTL([]byte("k")))

	removed := s.SweepExpired()
	assert.Equal(t, []string{"k"}, removed)
}

func TestSweepToleratesStaleHeapEntryAfterOverwrite(t *testing.T) {
	s, fc := newTestStore()
	s.Set([]byte("k"), []byte("v"))
	s.Expire([]byte("k"), 1)
	s.Set([]byte("k"), []byte("v2")) // Clears the expiration; stale heap entry remains.
	fc.advance(2 * time.Second)

	removed := s.SweepExpired()
	assert.Empty(t, removed)
	got, found, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", string(got))
}

func TestTTLValues(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, int64(-2), s.TTL([]byte("missing")))
	s.Set([]byte("k"), []byte("v"))
	assert.Equal(t, int64(-1), s.TTL([]byte("k")))
	s.Expire([]byte("k"), 10)
	assert.Equal(t, int64(10), s.TTL([]byte("k")))
}

func TestFlushAllRemovesEveryKey(t *testing.T) {
	s, _ := newTestStore()
	s.MSet([][]byte{[]byte("a"), []byte("b")}, [][]byte{[]byte("1"), []byte("2")})
	s.Flush()
	assert.Equal(t, 0, s.Exists([][]byte{[]byte("a"), []byte("b")}))
}
