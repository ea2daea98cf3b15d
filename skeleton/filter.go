package skeleton

import "github.com/go-kit/log/level"

// This file is the bulk filter/remove engine, a three-phase pass:
// evaluate predicates into a flag array, propagate removal flags across
// tiers via the built-in incidence properties, then compact each tier
// (faces first, then links, then atoms) using tierStore.compact.
//
// Phase 2 also scrubs every surviving atom's/link's incidence lists of
// entries referencing an element that Phase 3 is about to drop. The scrub
// runs uniformly over all elements, doomed or not: a removed entity's own
// incidence property is discarded anyway when its tier compacts, and
// scrubbing everything keeps Phase 2 a single linear pass over each
// incidence list and keeps the bulk path and the element-wise cascade
// path (topology.go) maintaining the same no-dangling-incidence
// invariants.

// evalFlags runs pred over every live index of a tier and returns the
// resulting bool array (Phase 1).
func (s *Skeleton) evalFlags(size int, parallel bool, pred func(i int) bool) []bool {
	flags := make([]bool, size)
	_ = s.processRange(parallel, size, func(i int) error {
		flags[i] = pred(i)
		return nil
	})
	return flags
}

// propagateToLinks marks a link flagged if any of its two atoms is flagged.
func (s *Skeleton) propagateToLinks(atomFlags []bool) []bool {
	linkFlags := make([]bool, s.links.size)
	for i, flagged := range atomFlags {
		if !flagged {
			continue
		}
		for _, e := range s.atomLinksProp.Get(i) {
			if lidx, err := s.links.indexOf(e.link.h); err == nil {
				linkFlags[lidx] = true
			}
		}
	}
	return linkFlags
}

// propagateToFaces marks a face flagged if any of its three links is flagged.
func (s *Skeleton) propagateToFaces(linkFlags []bool) []bool {
	faceFlags := make([]bool, s.faces.size)
	for i, flagged := range linkFlags {
		if !flagged {
			continue
		}
		for _, e := range s.linkFacesProp.Get(i) {
			if fidx, err := s.faces.indexOf(e.face.h); err == nil {
				faceFlags[fidx] = true
			}
		}
	}
	return faceFlags
}

// scrubAtomIncidence drops, from every atom's atom_links / atom_faces,
// entries that reference a link/face about to be dropped by Phase 3.
func (s *Skeleton) scrubAtomIncidence(linkFlags, faceFlags []bool) {
	for i := 0; i < s.atoms.size; i++ {
		if linkFlags != nil {
			*s.atomLinksProp.Ptr(i) = filterIncidence(s.atomLinksProp.Get(i), func(e atomLinkIncidence) bool {
				idx, err := s.links.indexOf(e.link.h)
				return err != nil || !linkFlags[idx]
			})
		}
		if faceFlags != nil {
			*s.atomFacesProp.Ptr(i) = filterIncidence(s.atomFacesProp.Get(i), func(e atomFaceIncidence) bool {
				idx, err := s.faces.indexOf(e.face.h)
				return err != nil || !faceFlags[idx]
			})
		}
	}
}

// scrubLinkIncidence drops, from every link's link_faces, entries that
// reference a face about to be dropped by Phase 3.
func (s *Skeleton) scrubLinkIncidence(faceFlags []bool) {
	if faceFlags == nil {
		return
	}
	for i := 0; i < s.links.size; i++ {
		*s.linkFacesProp.Ptr(i) = filterIncidence(s.linkFacesProp.Get(i), func(e linkFaceIncidence) bool {
			idx, err := s.faces.indexOf(e.face.h)
			return err != nil || !faceFlags[idx]
		})
	}
}

// filterIncidence keeps only the entries for which keep returns true,
// releasing the backing array if nothing survives.
func filterIncidence[T any](list []T, keep func(T) bool) []T {
	out := list[:0]
	for _, e := range list {
		if keep(e) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RemoveAtoms deletes every atom for which pred returns true, cascading to
// incident links and faces, and compacts the three tiers, faces first.
// Returns the number of atoms removed.
func (s *Skeleton) RemoveAtoms(parallel bool, pred func(h AtomHandle, b *Ball) bool) (int, error) {
	timer := s.metrics.bulkFilterTimer(TierAtom)
	defer timer.ObserveDuration()

	atomFlags := s.evalFlags(s.atoms.size, parallel, func(i int) bool {
		h, err := s.atoms.handleAt(i)
		if err != nil {
			return false
		}
		return pred(AtomHandle{h: h}, &s.atoms.elements[i])
	})

	linkFlags := s.propagateToLinks(atomFlags)
	faceFlags := s.propagateToFaces(linkFlags)

	s.scrubAtomIncidence(linkFlags, faceFlags)
	s.scrubLinkIncidence(faceFlags)

	removedFaces := s.faces.compact(faceFlags)
	removedLinks := s.links.compact(linkFlags)
	removedAtoms := s.atoms.compact(atomFlags)

	s.metrics.facesRemoved.Add(float64(removedFaces))
	s.metrics.linksRemoved.Add(float64(removedLinks))
	s.metrics.atomsRemoved.Add(float64(removedAtoms))
	s.bumpMutation()

	level.Debug(s.logger).Log("msg", "bulk atom removal", "removed_atoms", removedAtoms,
		"removed_links", removedLinks, "removed_faces", removedFaces)
	return removedAtoms, nil
}

// RemoveLinks deletes every link for which pred returns true, cascading to
// incident faces (atoms are never cascade-removed from a link removal;
// isolated atoms are legal). Returns the number of links removed.
func (s *Skeleton) RemoveLinks(parallel bool, pred func(h LinkHandle, a, b AtomHandle) bool) (int, error) {
	timer := s.metrics.bulkFilterTimer(TierLink)
	defer timer.ObserveDuration()

	linkFlags := s.evalFlags(s.links.size, parallel, func(i int) bool {
		h, err := s.links.handleAt(i)
		if err != nil {
			return false
		}
		rec := s.links.elements[i]
		return pred(LinkHandle{h: h}, rec.a, rec.b)
	})

	faceFlags := s.propagateToFaces(linkFlags)

	s.scrubAtomIncidence(linkFlags, faceFlags)
	s.scrubLinkIncidence(faceFlags)

	removedFaces := s.faces.compact(faceFlags)
	removedLinks := s.links.compact(linkFlags)

	s.metrics.facesRemoved.Add(float64(removedFaces))
	s.metrics.linksRemoved.Add(float64(removedLinks))
	s.bumpMutation()

	level.Debug(s.logger).Log("msg", "bulk link removal", "removed_links", removedLinks, "removed_faces", removedFaces)
	return removedLinks, nil
}

// RemoveFaces deletes every face for which pred returns true. No cascade:
// faces sit at the top of the topology.
func (s *Skeleton) RemoveFaces(parallel bool, pred func(h FaceHandle, atoms [3]AtomHandle, links [3]LinkHandle) bool) (int, error) {
	timer := s.metrics.bulkFilterTimer(TierFace)
	defer timer.ObserveDuration()

	faceFlags := s.evalFlags(s.faces.size, parallel, func(i int) bool {
		h, err := s.faces.handleAt(i)
		if err != nil {
			return false
		}
		rec := s.faces.elements[i]
		return pred(FaceHandle{h: h}, rec.atoms, rec.links)
	})

	s.scrubAtomIncidence(nil, faceFlags)
	s.scrubLinkIncidence(faceFlags)

	removed := s.faces.compact(faceFlags)
	s.metrics.facesRemoved.Add(float64(removed))
	s.bumpMutation()

	level.Debug(s.logger).Log("msg", "bulk face removal", "removed_faces", removed)
	return removed, nil
}
