package skeleton

// This file is the topology manager for element-wise operations: apart
// from the bulk filter engine (filter.go), it is the only place that
// mutates more than one tier inside a single logical operation and walks
// incidence lists. AddLink, AddFace, RemoveAtom, RemoveLink and RemoveFace
// are thin wrappers that delegate here.

// removeIncidence drops the first entry matched by match from list via
// swap-with-back-then-pop, releasing the backing array entirely if the
// list becomes empty.
func removeIncidence[T any](list []T, match func(T) bool) []T {
	for i := range list {
		if match(list[i]) {
			last := len(list) - 1
			list[i] = list[last]
			list = list[:last]
			break
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// findLinkBetween returns the handle of the existing link between the atom
// at idxA and atom b, if any.
func (s *Skeleton) findLinkBetween(idxA int, b AtomHandle) (LinkHandle, bool) {
	for _, e := range s.atomLinksProp.Get(idxA) {
		if e.other.h == b.h {
			return e.link, true
		}
	}
	return LinkHandle{}, false
}

// addLinkTopology creates the link (a,b), or returns the existing one
// between the same endpoints, and registers it with both atoms.
func (s *Skeleton) addLinkTopology(a, b AtomHandle) (LinkHandle, error) {
	idxA, err := s.atoms.indexOf(a.h)
	if err != nil {
		return LinkHandle{}, err
	}
	if existing, ok := s.findLinkBetween(idxA, b); ok {
		return existing, nil
	}

	lh, lidx, err := s.links.create()
	if err != nil {
		return LinkHandle{}, err
	}
	s.links.elements[lidx] = linkRecord{a: a, b: b}
	linkHandle := LinkHandle{h: lh}

	idxB, err := s.atoms.indexOf(b.h)
	if err != nil {
		return LinkHandle{}, err
	}

	*s.atomLinksProp.Ptr(idxA) = append(s.atomLinksProp.Get(idxA), atomLinkIncidence{link: linkHandle, other: b})
	*s.atomLinksProp.Ptr(idxB) = append(s.atomLinksProp.Get(idxB), atomLinkIncidence{link: linkHandle, other: a})

	s.metrics.linksAdded.Inc()
	return linkHandle, nil
}

// findFaceWith returns the handle of the existing face with vertex set
// {atomAtIdxA's atom, b, c}, if any. The other-vertex pair is matched in
// either order, so the lookup is insensitive to argument permutation.
func (s *Skeleton) findFaceWith(idxA int, b, c AtomHandle) (FaceHandle, bool) {
	for _, e := range s.atomFacesProp.Get(idxA) {
		if (e.others[0].h == b.h && e.others[1].h == c.h) ||
			(e.others[0].h == c.h && e.others[1].h == b.h) {
			return e.face, true
		}
	}
	return FaceHandle{}, false
}

// addFaceTopology creates the face spanned by a, b and c, reusing or
// auto-creating its three edge links, and registers the incidence entries
// on all six adjacent elements.
func (s *Skeleton) addFaceTopology(a, b, c AtomHandle) (FaceHandle, error) {
	idxA, err := s.atoms.indexOf(a.h)
	if err != nil {
		return FaceHandle{}, err
	}
	if existing, ok := s.findFaceWith(idxA, b, c); ok {
		return existing, nil
	}

	linkAB, err := s.addLinkTopology(a, b)
	if err != nil {
		return FaceHandle{}, err
	}
	linkBC, err := s.addLinkTopology(b, c)
	if err != nil {
		return FaceHandle{}, err
	}
	linkCA, err := s.addLinkTopology(c, a)
	if err != nil {
		return FaceHandle{}, err
	}

	fh, fidx, err := s.faces.create()
	if err != nil {
		return FaceHandle{}, err
	}
	atoms := [3]AtomHandle{a, b, c}
	links := [3]LinkHandle{linkAB, linkBC, linkCA}
	s.faces.elements[fidx] = faceRecord{atoms: atoms, links: links}
	faceHandle := FaceHandle{h: fh}

	for pos, atom := range atoms {
		var others [2]AtomHandle
		j := 0
		for k, other := range atoms {
			if k != pos {
				others[j] = other
				j++
			}
		}
		idx, err := s.atoms.indexOf(atom.h)
		if err != nil {
			return FaceHandle{}, err
		}
		entry := atomFaceIncidence{face: faceHandle, others: others, links: links, pos: uint8(pos)}
		*s.atomFacesProp.Ptr(idx) = append(s.atomFacesProp.Get(idx), entry)
	}

	for pos, link := range links {
		opposite := atoms[(pos+2)%3] // the vertex not on this edge, given edges AB,BC,CA
		var others [2]LinkHandle
		j := 0
		for k, other := range links {
			if k != pos {
				others[j] = other
				j++
			}
		}
		idx, err := s.links.indexOf(link.h)
		if err != nil {
			return FaceHandle{}, err
		}
		entry := linkFaceIncidence{face: faceHandle, oppositeAtom: opposite, others: others, pos: uint8(pos)}
		*s.linkFacesProp.Ptr(idx) = append(s.linkFacesProp.Get(idx), entry)
	}

	s.metrics.facesAdded.Inc()
	return faceHandle, nil
}

// removeFaceTopology destroys one face. No cascade into links, which may
// legally survive without incident faces.
func (s *Skeleton) removeFaceTopology(h FaceHandle) error {
	idx, err := s.faces.indexOf(h.h)
	if err != nil {
		return nil // invalid handle: silent no-op
	}
	rec := s.faces.elements[idx]

	for _, atom := range rec.atoms {
		aidx, err := s.atoms.indexOf(atom.h)
		if err != nil {
			continue
		}
		*s.atomFacesProp.Ptr(aidx) = removeIncidence(s.atomFacesProp.Get(aidx), func(e atomFaceIncidence) bool {
			return e.face.h == h.h
		})
	}
	for _, link := range rec.links {
		lidx, err := s.links.indexOf(link.h)
		if err != nil {
			continue
		}
		*s.linkFacesProp.Ptr(lidx) = removeIncidence(s.linkFacesProp.Get(lidx), func(e linkFaceIncidence) bool {
			return e.face.h == h.h
		})
	}

	s.faces.remove(h.h)
	s.metrics.facesRemoved.Inc()
	return nil
}

// removeLinkTopology destroys one link, cascading into every face built
// on it, and unregisters it from both endpoint atoms.
func (s *Skeleton) removeLinkTopology(h LinkHandle) error {
	idx, err := s.links.indexOf(h.h)
	if err != nil {
		return nil
	}
	rec := s.links.elements[idx]
	incidentFaces := append([]linkFaceIncidence(nil), s.linkFacesProp.Get(idx)...)

	for _, fe := range incidentFaces {
		faceRec, ok := s.faces.get(fe.face.h)
		if !ok {
			continue
		}
		for _, other := range fe.others {
			lidx, err := s.links.indexOf(other.h)
			if err != nil {
				continue
			}
			*s.linkFacesProp.Ptr(lidx) = removeIncidence(s.linkFacesProp.Get(lidx), func(e linkFaceIncidence) bool {
				return e.face.h == fe.face.h
			})
		}
		for _, atom := range faceRec.atoms {
			aidx, err := s.atoms.indexOf(atom.h)
			if err != nil {
				continue
			}
			*s.atomFacesProp.Ptr(aidx) = removeIncidence(s.atomFacesProp.Get(aidx), func(e atomFaceIncidence) bool {
				return e.face.h == fe.face.h
			})
		}
		s.faces.remove(fe.face.h)
		s.metrics.facesRemoved.Inc()
	}

	for _, atom := range [...]AtomHandle{rec.a, rec.b} {
		aidx, err := s.atoms.indexOf(atom.h)
		if err != nil {
			continue
		}
		*s.atomLinksProp.Ptr(aidx) = removeIncidence(s.atomLinksProp.Get(aidx), func(e atomLinkIncidence) bool {
			return e.link.h == h.h
		})
	}

	s.links.remove(h.h)
	s.metrics.linksRemoved.Inc()
	return nil
}

// removeAtomTopology destroys one atom, cascading into every incident
// face and link.
func (s *Skeleton) removeAtomTopology(h AtomHandle) error {
	idx, err := s.atoms.indexOf(h.h)
	if err != nil {
		return nil
	}
	incidentFaces := append([]atomFaceIncidence(nil), s.atomFacesProp.Get(idx)...)
	incidentLinks := append([]atomLinkIncidence(nil), s.atomLinksProp.Get(idx)...)

	for _, fe := range incidentFaces {
		for _, other := range fe.others {
			aidx, err := s.atoms.indexOf(other.h)
			if err != nil {
				continue
			}
			*s.atomFacesProp.Ptr(aidx) = removeIncidence(s.atomFacesProp.Get(aidx), func(e atomFaceIncidence) bool {
				return e.face.h == fe.face.h
			})
		}
		for _, link := range fe.links {
			lidx, err := s.links.indexOf(link.h)
			if err != nil {
				continue
			}
			*s.linkFacesProp.Ptr(lidx) = removeIncidence(s.linkFacesProp.Get(lidx), func(e linkFaceIncidence) bool {
				return e.face.h == fe.face.h
			})
		}
		s.faces.remove(fe.face.h)
		s.metrics.facesRemoved.Inc()
	}

	for _, le := range incidentLinks {
		oidx, err := s.atoms.indexOf(le.other.h)
		if err == nil {
			*s.atomLinksProp.Ptr(oidx) = removeIncidence(s.atomLinksProp.Get(oidx), func(e atomLinkIncidence) bool {
				return e.link.h == le.link.h
			})
		}
		s.links.remove(le.link.h)
		s.metrics.linksRemoved.Inc()
	}

	s.atoms.remove(h.h)
	s.metrics.atomsRemoved.Inc()
	return nil
}
