package skeleton

// linkRecord is the packed element of the link tier: an unordered pair of
// atom handles, a != b.
type linkRecord struct {
	a, b AtomHandle
}

// linkFaceIncidence is one entry of the required link_faces built-in
// property.
type linkFaceIncidence struct {
	face         FaceHandle
	oppositeAtom AtomHandle
	others       [2]LinkHandle
	pos          uint8
}

// AddLink creates (or, if one already exists between a and b, returns) the
// link between two atoms. See Skeleton.addLinkTopology for the dedup and
// incidence bookkeeping.
func (s *Skeleton) AddLink(a, b AtomHandle) (LinkHandle, error) {
	if a.h == b.h {
		return LinkHandle{}, errInvalidHandle(TierLink, a.h.slot, a.h.counter)
	}
	if !s.atoms.isValid(a.h) {
		return LinkHandle{}, errInvalidHandle(TierAtom, a.h.slot, a.h.counter)
	}
	if !s.atoms.isValid(b.h) {
		return LinkHandle{}, errInvalidHandle(TierAtom, b.h.slot, b.h.counter)
	}
	h, err := s.addLinkTopology(a, b)
	if err != nil {
		return LinkHandle{}, err
	}
	s.bumpMutation()
	return h, nil
}

// AddLinkByIndex is AddLink addressed by atom position instead of handle, for
// pipeline clients that already walk atoms by index in a hot parallel
// loop and want to avoid resolving a handle first.
func (s *Skeleton) AddLinkByIndex(ia, ib int) (LinkHandle, error) {
	ha, err := s.atoms.handleAt(ia)
	if err != nil {
		return LinkHandle{}, err
	}
	hb, err := s.atoms.handleAt(ib)
	if err != nil {
		return LinkHandle{}, err
	}
	return s.AddLink(AtomHandle{h: ha}, AtomHandle{h: hb})
}

func (s *Skeleton) ReserveLinks(capacity int) error { return s.links.grow(capacity) }

func (s *Skeleton) IsValidLink(h LinkHandle) bool { return s.links.isValid(h.h) }

// GetLinkAtoms returns the two atoms a link connects.
func (s *Skeleton) GetLinkAtoms(h LinkHandle) (AtomHandle, AtomHandle, error) {
	rec, ok := s.links.get(h.h)
	if !ok {
		return AtomHandle{}, AtomHandle{}, errInvalidHandle(TierLink, h.h.slot, h.h.counter)
	}
	return rec.a, rec.b, nil
}

func (s *Skeleton) LinkCount() int { return s.links.size }

func (s *Skeleton) LinkAt(i int) (LinkHandle, error) {
	h, err := s.links.handleAt(i)
	return LinkHandle{h: h}, err
}

func (s *Skeleton) LinkIndexOf(h LinkHandle) (int, error) { return s.links.indexOf(h.h) }

// LinkFaceEntry is the public view of one link_faces entry.
type LinkFaceEntry struct {
	Face         FaceHandle
	OppositeAtom AtomHandle
	Others       [2]LinkHandle
	Pos          uint8
}

func (s *Skeleton) LinkFaces(h LinkHandle) ([]LinkFaceEntry, error) {
	idx, err := s.links.indexOf(h.h)
	if err != nil {
		return nil, err
	}
	raw := s.linkFacesProp.Get(idx)
	out := make([]LinkFaceEntry, len(raw))
	for i, e := range raw {
		out[i] = LinkFaceEntry{Face: e.face, OppositeAtom: e.oppositeAtom, Others: e.others, Pos: e.pos}
	}
	return out, nil
}

// ProcessLinks iterates every live link.
func (s *Skeleton) ProcessLinks(parallel bool, fn func(h LinkHandle, a, b AtomHandle) error) error {
	return s.processRange(parallel, s.links.size, func(i int) error {
		h, err := s.links.handleAt(i)
		if err != nil {
			return err
		}
		rec := s.links.elements[i]
		return fn(LinkHandle{h: h}, rec.a, rec.b)
	})
}

func AddLinkProperty[T any](s *Skeleton, name string) (PropertyHandle[T], error) {
	t := newTypedProperty[T](name, s.links.capacity)
	if err := s.links.props.register(t, s.links.capacity); err != nil {
		return PropertyHandle[T]{}, err
	}
	return PropertyHandle[T]{table: t}, nil
}

// LinkPropertyByName re-looks-up a link property registered earlier through
// AddLinkProperty.
func LinkPropertyByName[T any](s *Skeleton, name string) (PropertyHandle[T], bool) {
	idx, ok := s.links.props.indexOf(name)
	if !ok {
		return PropertyHandle[T]{}, false
	}
	t, ok := s.links.props.tables[idx].(*TypedProperty[T])
	if !ok {
		return PropertyHandle[T]{}, false
	}
	return PropertyHandle[T]{table: t}, true
}

func GetLinkProperty[T any](s *Skeleton, h LinkHandle, p PropertyHandle[T]) (T, error) {
	idx, err := s.links.indexOf(h.h)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.getAt(idx), nil
}

func SetLinkProperty[T any](s *Skeleton, h LinkHandle, p PropertyHandle[T], v T) error {
	idx, err := s.links.indexOf(h.h)
	if err != nil {
		return err
	}
	p.setAt(idx, v)
	return nil
}
