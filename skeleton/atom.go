package skeleton

import "math"

// Ball is the packed element of the atom tier: a center (X,Y,Z) and a
// radius R. A valid ball has R >= 0; AddAtom stores R as given and does not
// check its sign.
type Ball struct {
	X, Y, Z, R float64
}

// Intersect reports whether two balls intersect: the distance between
// their centers is at most the sum of their radii. This is the geometry
// predicate pipeline clients are expected to use when deciding
// whether two atoms should be linked.
func Intersect(a, b Ball) bool {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	return dist <= a.R+b.R
}

// atomLinkIncidence is one entry of the required atom_links built-in
// property: the link incident to this atom, and the atom at its other end.
type atomLinkIncidence struct {
	link  LinkHandle
	other AtomHandle
}

// atomFaceIncidence is one entry of the required atom_faces built-in
// property.
type atomFaceIncidence struct {
	face   FaceHandle
	others [2]AtomHandle
	links  [3]LinkHandle
	pos    uint8
}

// AddAtom inserts a new atom and returns its handle.
func (s *Skeleton) AddAtom(b Ball) (AtomHandle, error) {
	h, idx, err := s.atoms.create()
	if err != nil {
		return AtomHandle{}, err
	}
	s.atoms.elements[idx] = b
	s.bumpMutation()
	s.metrics.atomsAdded.Inc()
	return AtomHandle{h: h}, nil
}

// ReserveAtoms pre-grows the atom tier's capacity.
func (s *Skeleton) ReserveAtoms(capacity int) error { return s.atoms.grow(capacity) }

// IsValidAtom reports whether h still resolves to a live atom.
func (s *Skeleton) IsValidAtom(h AtomHandle) bool { return s.atoms.isValid(h.h) }

// GetAtom returns a mutable pointer to the atom's ball. The pointer is only
// valid until the next structural mutation (add/remove) of the atom tier.
func (s *Skeleton) GetAtom(h AtomHandle) (*Ball, error) {
	b, ok := s.atoms.get(h.h)
	if !ok {
		return nil, errInvalidHandle(TierAtom, h.h.slot, h.h.counter)
	}
	return b, nil
}

// AtomCount returns the number of live atoms.
func (s *Skeleton) AtomCount() int { return s.atoms.size }

// AtomAt returns the handle of the atom currently at packed index i; valid
// for i in [0, AtomCount()).
func (s *Skeleton) AtomAt(i int) (AtomHandle, error) {
	h, err := s.atoms.handleAt(i)
	return AtomHandle{h: h}, err
}

// AtomIndexOf returns h's current packed index; ephemeral until the next
// mutation.
func (s *Skeleton) AtomIndexOf(h AtomHandle) (int, error) { return s.atoms.indexOf(h.h) }

// AtomLinks returns the atom's incident links, as (link handle, the atom at
// the other end) pairs.
func (s *Skeleton) AtomLinks(h AtomHandle) ([]AtomLinkEntry, error) {
	idx, err := s.atoms.indexOf(h.h)
	if err != nil {
		return nil, err
	}
	raw := s.atomLinksProp.Get(idx)
	out := make([]AtomLinkEntry, len(raw))
	for i, e := range raw {
		out[i] = AtomLinkEntry{Link: e.link, Other: e.other}
	}
	return out, nil
}

// AtomLinkEntry is the public view of one atom_links entry.
type AtomLinkEntry struct {
	Link  LinkHandle
	Other AtomHandle
}

// AtomFaceEntry is the public view of one atom_faces entry.
type AtomFaceEntry struct {
	Face   FaceHandle
	Others [2]AtomHandle
	Links  [3]LinkHandle
	Pos    uint8
}

// AtomFaces returns the atom's incident faces.
func (s *Skeleton) AtomFaces(h AtomHandle) ([]AtomFaceEntry, error) {
	idx, err := s.atoms.indexOf(h.h)
	if err != nil {
		return nil, err
	}
	raw := s.atomFacesProp.Get(idx)
	out := make([]AtomFaceEntry, len(raw))
	for i, e := range raw {
		out[i] = AtomFaceEntry{Face: e.face, Others: e.others, Links: e.links, Pos: e.pos}
	}
	return out, nil
}

// ProcessAtoms iterates every live atom. When parallel is true the callback
// runs concurrently over disjoint index ranges via an errgroup and must not
// mutate the skeleton.
func (s *Skeleton) ProcessAtoms(parallel bool, fn func(h AtomHandle, b *Ball) error) error {
	return s.processRange(parallel, s.atoms.size, func(i int) error {
		h, err := s.atoms.handleAt(i)
		if err != nil {
			return err
		}
		return fn(AtomHandle{h: h}, &s.atoms.elements[i])
	})
}

// AddAtomProperty registers a new typed property table on the atom tier. If
// atoms already exist, the new table is default-initialized for every
// existing index.
func AddAtomProperty[T any](s *Skeleton, name string) (PropertyHandle[T], error) {
	t := newTypedProperty[T](name, s.atoms.capacity)
	if err := s.atoms.props.register(t, s.atoms.capacity); err != nil {
		return PropertyHandle[T]{}, err
	}
	return PropertyHandle[T]{table: t}, nil
}

// AtomPropertyByName re-looks-up an atom property registered earlier through
// AddAtomProperty, for callers (e.g. a codec or a second pipeline stage) that
// only have the name. The bool is false if no property of that name and type
// was registered.
func AtomPropertyByName[T any](s *Skeleton, name string) (PropertyHandle[T], bool) {
	idx, ok := s.atoms.props.indexOf(name)
	if !ok {
		return PropertyHandle[T]{}, false
	}
	t, ok := s.atoms.props.tables[idx].(*TypedProperty[T])
	if !ok {
		return PropertyHandle[T]{}, false
	}
	return PropertyHandle[T]{table: t}, true
}

// GetAtomProperty reads an atom property value previously stored through a
// PropertyHandle obtained from AddAtomProperty.
func GetAtomProperty[T any](s *Skeleton, h AtomHandle, p PropertyHandle[T]) (T, error) {
	idx, err := s.atoms.indexOf(h.h)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.getAt(idx), nil
}

// SetAtomProperty writes an atom property value.
func SetAtomProperty[T any](s *Skeleton, h AtomHandle, p PropertyHandle[T], v T) error {
	idx, err := s.atoms.indexOf(h.h)
	if err != nil {
		return err
	}
	p.setAt(idx, v)
	return nil
}
