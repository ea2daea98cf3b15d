package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTriangle(t *testing.T, s *Skeleton) (a0, a1, a2 AtomHandle, face FaceHandle) {
	t.Helper()
	var err error
	a0, err = s.AddAtom(Ball{X: 0, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	a1, err = s.AddAtom(Ball{X: 1, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	a2, err = s.AddAtom(Ball{X: 0, Y: 1, Z: 0, R: 1})
	require.NoError(t, err)
	face, err = s.AddFace(a0, a1, a2)
	require.NoError(t, err)
	return
}

func TestTriangleConstruction(t *testing.T) {
	s := New(Config{})
	a0, a1, a2, face := addTriangle(t, s)

	assert.Equal(t, 3, s.AtomCount())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 1, s.FaceCount())

	for _, a := range []AtomHandle{a0, a1, a2} {
		faces, err := s.AtomFaces(a)
		require.NoError(t, err)
		assert.Len(t, faces, 1)
		assert.Equal(t, face, faces[0].Face)

		links, err := s.AtomLinks(a)
		require.NoError(t, err)
		assert.Len(t, links, 2)
	}

	atoms, links, err := s.GetFace(face)
	require.NoError(t, err)
	assert.ElementsMatch(t, []AtomHandle{a0, a1, a2}, atoms[:])
	for _, l := range links {
		entries, err := s.LinkFaces(l)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, face, entries[0].Face)
	}
}

func TestAddFaceIsIdempotent(t *testing.T) {
	s := New(Config{})
	a0, a1, a2, face := addTriangle(t, s)

	again, err := s.AddFace(a0, a1, a2)
	require.NoError(t, err)
	assert.Equal(t, face, again)
	assert.Equal(t, 3, s.AtomCount())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 1, s.FaceCount())

	// dedup must match every permutation of the vertex set, not just the
	// exact argument order.
	permuted, err := s.AddFace(a1, a0, a2)
	require.NoError(t, err)
	assert.Equal(t, face, permuted)
	assert.Equal(t, 1, s.FaceCount())
}

func TestAddLinkIsIdempotent(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)
	b, err := s.AddAtom(Ball{X: 1, R: 1})
	require.NoError(t, err)

	l1, err := s.AddLink(a, b)
	require.NoError(t, err)
	l2, err := s.AddLink(b, a)
	require.NoError(t, err)

	assert.Equal(t, l1, l2)
	assert.Equal(t, 1, s.LinkCount())
}

func TestRemoveAtomCascades(t *testing.T) {
	s := New(Config{})
	a0, a1, a2, face := addTriangle(t, s)

	s.RemoveAtom(a0)

	assert.Equal(t, 2, s.AtomCount())
	assert.Equal(t, 1, s.LinkCount())
	assert.Equal(t, 0, s.FaceCount())

	for _, a := range []AtomHandle{a1, a2} {
		links, err := s.AtomLinks(a)
		require.NoError(t, err)
		assert.Len(t, links, 1)

		faces, err := s.AtomFaces(a)
		require.NoError(t, err)
		assert.Empty(t, faces)
	}

	remaining, err := s.LinkAt(0)
	require.NoError(t, err)
	ea, eb, err := s.GetLinkAtoms(remaining)
	require.NoError(t, err)
	assert.ElementsMatch(t, []AtomHandle{a1, a2}, []AtomHandle{ea, eb})

	assert.False(t, s.IsValidAtom(a0))
	assert.False(t, s.IsValidFace(face))
}

func TestRemoveAtomWithNoIncidentLinkLeavesOthersUntouched(t *testing.T) {
	s := New(Config{})
	_, _, _, _ = addTriangle(t, s)
	isolated, err := s.AddAtom(Ball{X: 100, R: 1})
	require.NoError(t, err)

	s.RemoveAtom(isolated)

	assert.Equal(t, 3, s.AtomCount())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 1, s.FaceCount())
}

func TestRemoveInvalidHandleIsNoOp(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)
	s.RemoveAtom(a)

	assert.NotPanics(t, func() { s.RemoveAtom(a) })
	assert.Equal(t, 0, s.AtomCount())
}

func TestBulkRemoveAtoms(t *testing.T) {
	s := New(Config{})
	handles := make([]AtomHandle, 100)
	for i := 0; i < 100; i++ {
		h, err := s.AddAtom(Ball{X: float64(i), R: 1})
		require.NoError(t, err)
		handles[i] = h
	}

	removed, err := s.RemoveAtoms(true, func(_ AtomHandle, b *Ball) bool { return b.X >= 50 })
	require.NoError(t, err)
	assert.Equal(t, 50, removed)
	assert.Equal(t, 50, s.AtomCount())

	for i := 0; i < 50; i++ {
		assert.False(t, s.IsValidAtom(handles[i+50]))
	}
	for i := 0; i < 50; i++ {
		b, err := s.GetAtom(handles[i])
		require.NoError(t, err)
		assert.Less(t, b.X, 50.0)
		assert.Equal(t, float64(i), b.X)
	}

	err = s.ProcessAtoms(false, func(_ AtomHandle, b *Ball) error {
		assert.Less(t, b.X, 50.0)
		return nil
	})
	require.NoError(t, err)
}

func TestBulkRemoveAtomsWithTopology(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{X: 0, R: 1})
	require.NoError(t, err)
	b, err := s.AddAtom(Ball{X: 1, R: 1})
	require.NoError(t, err)
	c, err := s.AddAtom(Ball{X: 2, R: 1})
	require.NoError(t, err)
	d, err := s.AddAtom(Ball{X: 3, R: 1})
	require.NoError(t, err)

	_, err = s.AddFace(a, b, c)
	require.NoError(t, err)
	_, err = s.AddFace(a, b, d)
	require.NoError(t, err)
	_, err = s.AddFace(a, c, d)
	require.NoError(t, err)
	bcd, err := s.AddFace(b, c, d)
	require.NoError(t, err)

	removed, err := s.RemoveAtoms(false, func(h AtomHandle, _ *Ball) bool { return h == a })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.Equal(t, 3, s.AtomCount())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 1, s.FaceCount())
	assert.True(t, s.IsValidFace(bcd))

	seen := map[[2]AtomHandle]bool{}
	for i := 0; i < s.LinkCount(); i++ {
		lh, err := s.LinkAt(i)
		require.NoError(t, err)
		x, y, err := s.GetLinkAtoms(lh)
		require.NoError(t, err)
		key := [2]AtomHandle{x, y}
		rev := [2]AtomHandle{y, x}
		assert.False(t, seen[key] || seen[rev], "duplicate link endpoint pair")
		seen[key] = true
	}

	for _, h := range []AtomHandle{b, c, d} {
		links, err := s.AtomLinks(h)
		require.NoError(t, err)
		for _, l := range links {
			assert.True(t, s.IsValidLink(l.Link))
		}
		faces, err := s.AtomFaces(h)
		require.NoError(t, err)
		for _, f := range faces {
			assert.True(t, s.IsValidFace(f.Face))
		}
	}
}

func TestZeroCapacityLazyGrow(t *testing.T) {
	s := New(Config{})
	h, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)
	assert.True(t, s.IsValidAtom(h))
}

func TestHandleStaysValidAcrossUnrelatedMutation(t *testing.T) {
	s := New(Config{})
	first, err := s.AddAtom(Ball{X: 1, R: 1})
	require.NoError(t, err)
	second, err := s.AddAtom(Ball{X: 2, R: 1})
	require.NoError(t, err)

	s.RemoveAtom(first)

	b, err := s.GetAtom(second)
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.X)
}

func TestAtomPropertyRoundTrip(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)

	prop, err := AddAtomProperty[string](s, "label")
	require.NoError(t, err)

	require.NoError(t, SetAtomProperty(s, a, prop, "hello"))
	got, err := GetAtomProperty(s, a, prop)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestAtomPropertyByName(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)

	_, err = AddAtomProperty[string](s, "label")
	require.NoError(t, err)

	prop, ok := AtomPropertyByName[string](s, "label")
	require.True(t, ok)
	require.NoError(t, SetAtomProperty(s, a, prop, "re-looked-up"))
	got, err := GetAtomProperty(s, a, prop)
	require.NoError(t, err)
	assert.Equal(t, "re-looked-up", got)

	_, ok = AtomPropertyByName[string](s, "missing")
	assert.False(t, ok)

	_, ok = AtomPropertyByName[int](s, "label")
	assert.False(t, ok, "wrong type for an existing name must not resolve")
}

func TestAddLinkByIndex(t *testing.T) {
	s := New(Config{})
	a, err := s.AddAtom(Ball{R: 1})
	require.NoError(t, err)
	b, err := s.AddAtom(Ball{X: 1, R: 1})
	require.NoError(t, err)

	ia, err := s.AtomIndexOf(a)
	require.NoError(t, err)
	ib, err := s.AtomIndexOf(b)
	require.NoError(t, err)

	byHandle, err := s.AddLink(a, b)
	require.NoError(t, err)

	byIndex, err := s.AddLinkByIndex(ia, ib)
	require.NoError(t, err)
	assert.Equal(t, byHandle, byIndex, "index-based add must dedup against the same link")
	assert.Equal(t, 1, s.LinkCount())

	_, err = s.AddLinkByIndex(ia, 99)
	assert.Error(t, err)
}

func TestAddFaceByIndex(t *testing.T) {
	s := New(Config{})
	a0, err := s.AddAtom(Ball{X: 0, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	a1, err := s.AddAtom(Ball{X: 1, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	a2, err := s.AddAtom(Ball{X: 0, Y: 1, Z: 0, R: 1})
	require.NoError(t, err)

	i0, err := s.AtomIndexOf(a0)
	require.NoError(t, err)
	i1, err := s.AtomIndexOf(a1)
	require.NoError(t, err)
	i2, err := s.AtomIndexOf(a2)
	require.NoError(t, err)

	face, err := s.AddFaceByIndex(i0, i1, i2)
	require.NoError(t, err)
	assert.Equal(t, 1, s.FaceCount())
	assert.Equal(t, 3, s.LinkCount())

	again, err := s.AddFace(a0, a1, a2)
	require.NoError(t, err)
	assert.Equal(t, face, again, "index-based and handle-based add must resolve to the same face")

	_, err = s.AddFaceByIndex(i0, i1, 99)
	assert.Error(t, err)
}
