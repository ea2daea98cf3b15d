package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveLinksCascadesToFaces(t *testing.T) {
	s := New(Config{})
	a0, a1, a2, face := addTriangle(t, s)

	linkAB, ok := s.findLinkBetween(mustIndex(t, s, a0), a1)
	require.True(t, ok)

	removed, err := s.RemoveLinks(false, func(h LinkHandle, _, _ AtomHandle) bool { return h == linkAB })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, s.IsValidLink(linkAB))
	assert.False(t, s.IsValidFace(face))
	assert.Equal(t, 2, s.LinkCount())
	assert.Equal(t, 0, s.FaceCount())

	for _, a := range []AtomHandle{a0, a1, a2} {
		faces, err := s.AtomFaces(a)
		require.NoError(t, err)
		assert.Empty(t, faces)
	}
}

func TestRemoveFacesLeavesLinksAndAtoms(t *testing.T) {
	s := New(Config{})
	a0, a1, a2, face := addTriangle(t, s)

	removed, err := s.RemoveFaces(false, func(h FaceHandle, _ [3]AtomHandle, _ [3]LinkHandle) bool { return h == face })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.Equal(t, 3, s.AtomCount())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 0, s.FaceCount())

	for _, a := range []AtomHandle{a0, a1, a2} {
		faces, err := s.AtomFaces(a)
		require.NoError(t, err)
		assert.Empty(t, faces)

		links, err := s.AtomLinks(a)
		require.NoError(t, err)
		assert.Len(t, links, 2)
	}
}

func TestBulkRemoveParallelMatchesSequential(t *testing.T) {
	build := func() (*Skeleton, []AtomHandle) {
		s := New(Config{ParallelChunkSize: 4})
		handles := make([]AtomHandle, 40)
		for i := 0; i < 40; i++ {
			h, err := s.AddAtom(Ball{X: float64(i), R: 1})
			require.NoError(t, err)
			handles[i] = h
		}
		return s, handles
	}

	pred := func(_ AtomHandle, b *Ball) bool { return int(b.X)%3 == 0 }

	seq, _ := build()
	seqRemoved, err := seq.RemoveAtoms(false, pred)
	require.NoError(t, err)

	par, _ := build()
	parRemoved, err := par.RemoveAtoms(true, pred)
	require.NoError(t, err)

	assert.Equal(t, seqRemoved, parRemoved)
	assert.Equal(t, seq.AtomCount(), par.AtomCount())
}

func mustIndex(t *testing.T, s *Skeleton, a AtomHandle) int {
	t.Helper()
	idx, err := s.atoms.indexOf(a.h)
	require.NoError(t, err)
	return idx
}
