package geomutil

import (
	"github.com/median-path/skeleton/skeleton"
	"github.com/median-path/skeleton/skeleton/pool"
)

// BuildIntersectionLinks is a worked pipeline-client pass: it links every
// pair of atoms whose balls intersect. The candidate search (an all-pairs
// scan) is fanned out across p's worker pool; the resulting links are then
// added to s one at a time, on the calling goroutine, which is the only
// place s.AddLink is ever called.
func BuildIntersectionLinks(s *skeleton.Skeleton, p *pool.Pool) (int, error) {
	n := s.AtomCount()
	if n < 2 {
		return 0, nil
	}

	handles := make([]skeleton.AtomHandle, n)
	balls := make([]skeleton.Ball, n)
	for i := 0; i < n; i++ {
		h, err := s.AtomAt(i)
		if err != nil {
			return 0, err
		}
		b, err := s.GetAtom(h)
		if err != nil {
			return 0, err
		}
		handles[i] = h
		balls[i] = *b
	}

	payloads := make([]interface{}, n)
	for i := range payloads {
		payloads[i] = i
	}

	results, err := p.RunAll(payloads, func(payload interface{}) (interface{}, error) {
		i := payload.(int)
		var candidates []int
		for j := i + 1; j < n; j++ {
			if Intersect(balls[i], balls[j]) {
				candidates = append(candidates, j)
			}
		}
		return candidates, nil
	})
	if err != nil {
		return 0, err
	}

	added := 0
	for i, r := range results {
		candidates, _ := r.([]int)
		for _, j := range candidates {
			if _, err := s.AddLink(handles[i], handles[j]); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}
