package skeleton

// faceRecord is the packed element of the face tier: an unordered triple of
// atom handles and the three link handles that are exactly its edges.
type faceRecord struct {
	atoms [3]AtomHandle
	links [3]LinkHandle
}

// AddFace creates (or returns the existing handle of) the face spanned by
// three pairwise-distinct atoms, auto-creating any of its three edge links
// that don't already exist. See Skeleton.addFaceTopology.
func (s *Skeleton) AddFace(a, b, c AtomHandle) (FaceHandle, error) {
	if a.h == b.h || b.h == c.h || a.h == c.h {
		return FaceHandle{}, errInvalidHandle(TierFace, a.h.slot, a.h.counter)
	}
	for _, h := range [...]AtomHandle{a, b, c} {
		if !s.atoms.isValid(h.h) {
			return FaceHandle{}, errInvalidHandle(TierAtom, h.h.slot, h.h.counter)
		}
	}
	h, err := s.addFaceTopology(a, b, c)
	if err != nil {
		return FaceHandle{}, err
	}
	s.bumpMutation()
	return h, nil
}

// AddFaceByIndex is AddFace addressed by atom position instead of handle, for
// pipeline clients that already walk atoms by index in a hot parallel
// loop and want to avoid resolving a handle first.
func (s *Skeleton) AddFaceByIndex(ia, ib, ic int) (FaceHandle, error) {
	ha, err := s.atoms.handleAt(ia)
	if err != nil {
		return FaceHandle{}, err
	}
	hb, err := s.atoms.handleAt(ib)
	if err != nil {
		return FaceHandle{}, err
	}
	hc, err := s.atoms.handleAt(ic)
	if err != nil {
		return FaceHandle{}, err
	}
	return s.AddFace(AtomHandle{h: ha}, AtomHandle{h: hb}, AtomHandle{h: hc})
}

func (s *Skeleton) ReserveFaces(capacity int) error { return s.faces.grow(capacity) }

func (s *Skeleton) IsValidFace(h FaceHandle) bool { return s.faces.isValid(h.h) }

// GetFace returns the face's atom triple and link triple, in the order they
// were stored at creation.
func (s *Skeleton) GetFace(h FaceHandle) (atoms [3]AtomHandle, links [3]LinkHandle, err error) {
	rec, ok := s.faces.get(h.h)
	if !ok {
		return atoms, links, errInvalidHandle(TierFace, h.h.slot, h.h.counter)
	}
	return rec.atoms, rec.links, nil
}

func (s *Skeleton) FaceCount() int { return s.faces.size }

func (s *Skeleton) FaceAt(i int) (FaceHandle, error) {
	h, err := s.faces.handleAt(i)
	return FaceHandle{h: h}, err
}

func (s *Skeleton) FaceIndexOf(h FaceHandle) (int, error) { return s.faces.indexOf(h.h) }

// ProcessFaces iterates every live face.
func (s *Skeleton) ProcessFaces(parallel bool, fn func(h FaceHandle, atoms [3]AtomHandle, links [3]LinkHandle) error) error {
	return s.processRange(parallel, s.faces.size, func(i int) error {
		h, err := s.faces.handleAt(i)
		if err != nil {
			return err
		}
		rec := s.faces.elements[i]
		return fn(FaceHandle{h: h}, rec.atoms, rec.links)
	})
}

func AddFaceProperty[T any](s *Skeleton, name string) (PropertyHandle[T], error) {
	t := newTypedProperty[T](name, s.faces.capacity)
	if err := s.faces.props.register(t, s.faces.capacity); err != nil {
		return PropertyHandle[T]{}, err
	}
	return PropertyHandle[T]{table: t}, nil
}

// FacePropertyByName re-looks-up a face property registered earlier through
// AddFaceProperty.
func FacePropertyByName[T any](s *Skeleton, name string) (PropertyHandle[T], bool) {
	idx, ok := s.faces.props.indexOf(name)
	if !ok {
		return PropertyHandle[T]{}, false
	}
	t, ok := s.faces.props.tables[idx].(*TypedProperty[T])
	if !ok {
		return PropertyHandle[T]{}, false
	}
	return PropertyHandle[T]{table: t}, true
}

func GetFaceProperty[T any](s *Skeleton, h FaceHandle, p PropertyHandle[T]) (T, error) {
	idx, err := s.faces.indexOf(h.h)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.getAt(idx), nil
}

func SetFaceProperty[T any](s *Skeleton, h FaceHandle, p PropertyHandle[T], v T) error {
	idx, err := s.faces.indexOf(h.h)
	if err != nil {
		return err
	}
	p.setAt(idx, v)
	return nil
}
