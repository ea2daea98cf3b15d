package skeleton

import "golang.org/x/sync/errgroup"

// processRange runs fn(i) for every i in [0,size). When parallel is true
// and size is at least twice cfg.ParallelChunkSize, the range is split into
// chunks of max(size/cfg.MaxWorkers, cfg.ParallelChunkSize) indices (the
// last chunk may be shorter) and run concurrently via an errgroup. A chunk
// stops at its own first error; the other chunks are not cancelled, and
// the first error is returned once every chunk has finished.
func (s *Skeleton) processRange(parallel bool, size int, fn func(i int) error) error {
	if !parallel || size < s.cfg.ParallelChunkSize*2 {
		snapshot := s.mutationSnapshot()
		for i := 0; i < size; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		checkNoMutation(s, snapshot)
		return nil
	}

	workers := s.cfg.MaxWorkers
	chunk := size / workers
	if chunk < s.cfg.ParallelChunkSize {
		chunk = s.cfg.ParallelChunkSize
	}

	snapshot := s.mutationSnapshot()
	var g errgroup.Group
	for start := 0; start < size; start += chunk {
		end := start + chunk
		if end > size {
			end = size
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	checkNoMutation(s, snapshot)
	return err
}
