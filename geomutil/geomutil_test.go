package geomutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/median-path/skeleton/skeleton"
	"github.com/median-path/skeleton/skeleton/pool"
)

func TestIntersect(t *testing.T) {
	a := skeleton.Ball{X: 0, Y: 0, Z: 0, R: 1}
	b := skeleton.Ball{X: 1.5, Y: 0, Z: 0, R: 1}
	c := skeleton.Ball{X: 10, Y: 0, Z: 0, R: 1}

	assert.True(t, Intersect(a, b))
	assert.False(t, Intersect(a, c))
}

func TestComputeCentersBoundingBoxEmpty(t *testing.T) {
	s := skeleton.New(skeleton.Config{})
	_, _, ok := ComputeCentersBoundingBox(s)
	assert.False(t, ok)
}

func TestComputeCentersBoundingBox(t *testing.T) {
	s := skeleton.New(skeleton.Config{})
	_, err := s.AddAtom(skeleton.Ball{X: -1, Y: 2, Z: 0, R: 0.5})
	require.NoError(t, err)
	_, err = s.AddAtom(skeleton.Ball{X: 3, Y: -4, Z: 5, R: 0.5})
	require.NoError(t, err)

	min, max, ok := ComputeCentersBoundingBox(s)
	require.True(t, ok)
	assert.Equal(t, [3]float64{-1, -4, 0}, min)
	assert.Equal(t, [3]float64{3, 2, 5}, max)
}

func TestBuildIntersectionLinks(t *testing.T) {
	s := skeleton.New(skeleton.Config{})

	// 0 and 1 intersect, 2 sits far away from both.
	_, err := s.AddAtom(skeleton.Ball{X: 0, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	_, err = s.AddAtom(skeleton.Ball{X: 1.5, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)
	_, err = s.AddAtom(skeleton.Ball{X: 20, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)

	p := pool.New(&pool.Config{MaxWorkers: 4, QueueDepth: 16})
	defer p.Shutdown()

	added, err := BuildIntersectionLinks(s, p)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, s.LinkCount())
}

func TestBuildIntersectionLinksSingleAtom(t *testing.T) {
	s := skeleton.New(skeleton.Config{})
	_, err := s.AddAtom(skeleton.Ball{X: 0, Y: 0, Z: 0, R: 1})
	require.NoError(t, err)

	p := pool.New(&pool.Config{MaxWorkers: 2, QueueDepth: 16})
	defer p.Shutdown()

	added, err := BuildIntersectionLinks(s, p)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
