package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRandomIntnRange(t *testing.T) {
	r := New()
	for range 200 {
		v := r.Intn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestBetween(t *testing.T) {
	r := New()
	for range 100 {
		v := Between(r, 2, 4)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 4)
	}
	assert.Equal(t, 3, Between(r, 3, 1))
}

func TestSampleIsDistinctSubset(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	got := Sample(New(), items, 3)
	assert.Len(t, got, 3)
	assert.Subset(t, items, got)
	assert.Len(t, map[string]bool{got[0]: true, got[1]: true, got[2]: true}, 3)
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)

	assert.Len(t, Sample(New(), items, 9), 4)
	assert.Empty(t, Sample(New(), items, -1))
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	Shuffle(New(), len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, items)
}

func TestPick(t *testing.T) {
	_, ok := Pick[string](New(), nil)
	assert.False(t, ok)

	v, ok := Pick(New(), []string{"only"})
	assert.True(t, ok)
	assert.Equal(t, "only", v)
}
