package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierStoreCreateResolveRemove(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)

	h1, idx1, err := st.create()
	require.NoError(t, err)
	assert.Equal(t, 0, idx1)
	st.elements[idx1] = 42

	v, ok := st.get(h1)
	require.True(t, ok)
	assert.Equal(t, 42, *v)

	assert.True(t, st.remove(h1))
	assert.False(t, st.isValid(h1))
}

func TestTierStoreSlotReuseBumpsCounter(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 1)

	h1, _, err := st.create()
	require.NoError(t, err)
	st.remove(h1)

	h2, _, err := st.create()
	require.NoError(t, err)

	assert.Equal(t, h1.slot, h2.slot)
	assert.NotEqual(t, h1.counter, h2.counter)
	assert.False(t, st.isValid(h1))
	assert.True(t, st.isValid(h2))
}

func TestTierStoreRemoveAtSwapsWithLast(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, idx, err := st.create()
		require.NoError(t, err)
		st.elements[idx] = i
		handles = append(handles, h)
	}

	st.remove(handles[1]) // remove index 1; last element (index 4, value 4) moves into slot 1

	assert.Equal(t, 4, st.size)
	v, ok := st.get(handles[4])
	require.True(t, ok)
	assert.Equal(t, 4, *v)

	idx, err := st.indexOf(handles[4])
	require.NoError(t, err)
	h, err := st.handleAt(idx)
	require.NoError(t, err)
	assert.Equal(t, handles[4], h)
}

func TestTierStoreRemovingLastElementIsAllowed(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)
	h, _, err := st.create()
	require.NoError(t, err)

	assert.True(t, st.remove(h))
	assert.Equal(t, 0, st.size)
}

func TestTierStoreCompactNoneFlagged(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)
	for i := 0; i < 5; i++ {
		_, idx, err := st.create()
		require.NoError(t, err)
		st.elements[idx] = i
	}

	removed := st.compact(make([]bool, 5))
	assert.Equal(t, 0, removed)
	assert.Equal(t, 5, st.size)
}

func TestTierStoreCompactAllFlagged(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)
	for i := 0; i < 5; i++ {
		_, idx, err := st.create()
		require.NoError(t, err)
		st.elements[idx] = i
	}

	flags := make([]bool, 5)
	for i := range flags {
		flags[i] = true
	}
	removed := st.compact(flags)
	assert.Equal(t, 5, removed)
	assert.Equal(t, 0, st.size)
}

func TestTierStoreCompactAlternating(t *testing.T) {
	st := newTierStore[int](TierAtom, maxAtomSlot, 0)
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, idx, err := st.create()
		require.NoError(t, err)
		st.elements[idx] = i
		handles = append(handles, h)
	}

	// flags: [T,F,T,T,F] on values [0,1,2,3,4] -> survivors should be {1,4}
	removed := st.compact([]bool{true, false, true, true, false})
	assert.Equal(t, 3, removed)
	assert.Equal(t, 2, st.size)

	survivors := map[int]bool{}
	for i := 0; i < st.size; i++ {
		survivors[st.elements[i]] = true
	}
	assert.Equal(t, map[int]bool{1: true, 4: true}, survivors)

	// every remaining handle must still resolve to the right value, and
	// every index-to-handle mapping must be self-consistent (invariants 2-3).
	for i := 0; i < st.size; i++ {
		h, err := st.handleAt(i)
		require.NoError(t, err)
		idx, err := st.indexOf(h)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	assert.False(t, st.isValid(handles[0]))
	assert.False(t, st.isValid(handles[2]))
	assert.False(t, st.isValid(handles[3]))
}

func TestTierStoreGrowRespectsMaxSlot(t *testing.T) {
	st := newTierStore[int](TierAtom, 2, 0) // only slots 0,1,2 ever allowed

	for i := 0; i < 3; i++ {
		_, _, err := st.create()
		require.NoError(t, err)
	}
	_, _, err := st.create()
	assert.Error(t, err)
	var skErr *Error
	require.ErrorAs(t, err, &skErr)
	assert.Equal(t, ErrBufferOverflow, skErr.Kind)
}
