// Package skeleton implements the medial-skeleton core: a three-tier
// tight-packed container of atoms, links and faces, addressed by
// generational handles, with dynamically typed per-tier property tables
// and topology invariants maintained automatically across tiers.
//
// A Skeleton is not safe for concurrent structural mutation from more than
// one goroutine at a time. Read-only iteration via process_* with
// parallel=true is safe as long as the callback does not mutate the
// skeleton.
package skeleton

import (
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// Skeleton is the medial-skeleton container: three packed tiers, their
// property tables, and the topology bookkeeping that ties them together.
type Skeleton struct {
	id uuid.UUID

	atoms *tierStore[Ball]
	links *tierStore[linkRecord]
	faces *tierStore[faceRecord]

	atomLinksProp *TypedProperty[[]atomLinkIncidence]
	atomFacesProp *TypedProperty[[]atomFaceIncidence]
	linkFacesProp *TypedProperty[[]linkFaceIncidence]

	cfg     Config
	logger  log.Logger
	metrics *skeletonMetrics

	// mutationGen is bumped on every structural mutation. Under the
	// skeleton_debug build tag, process_*(parallel=true) snapshots it
	// before fanning out and panics if it changed mid-iteration.
	mutationGen uint64
}

// Option configures a Skeleton at construction time.
type Option func(*Skeleton)

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Skeleton) { s.logger = logger }
}

// New constructs an empty skeleton with the given capacity hints (0 means
// lazy growth).
func New(cfg Config, opts ...Option) *Skeleton {
	s := &Skeleton{
		id:     uuid.New(),
		cfg:    cfg.withDefaults(),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newSkeletonMetrics(s.id.String())
	s.initTiers(cfg)
	return s
}

func (s *Skeleton) initTiers(cfg Config) {
	s.atoms = newTierStore[Ball](TierAtom, maxAtomSlot, cfg.AtomCapacity)
	s.links = newTierStore[linkRecord](TierLink, maxLinkSlot, cfg.LinkCapacity)
	s.faces = newTierStore[faceRecord](TierFace, maxFaceSlot, cfg.FaceCapacity)

	s.atomLinksProp = newTypedProperty[[]atomLinkIncidence]("atom_links", s.atoms.capacity)
	_ = s.atoms.props.register(s.atomLinksProp, s.atoms.capacity)

	s.atomFacesProp = newTypedProperty[[]atomFaceIncidence]("atom_faces", s.atoms.capacity)
	_ = s.atoms.props.register(s.atomFacesProp, s.atoms.capacity)

	s.linkFacesProp = newTypedProperty[[]linkFaceIncidence]("link_faces", s.links.capacity)
	_ = s.links.props.register(s.linkFacesProp, s.links.capacity)
}

// ID returns the skeleton's process-local identity, used for metric labels
// and as the `.median` header's `id` field on save.
func (s *Skeleton) ID() uuid.UUID { return s.id }

// SetID overrides the skeleton's identity. Used by the `.median` codec to
// restore the id a document was saved with, so load/save round-trips the
// identity the same way it round-trips atoms/links/faces.
func (s *Skeleton) SetID(id uuid.UUID) { s.id = id }

// Clear resets all three tiers to empty and re-grows them to the given
// capacities. Property tables are
// recreated empty; user-registered properties must be re-added after Clear.
func (s *Skeleton) Clear(cfg Config) {
	s.cfg = cfg.withDefaults()
	s.initTiers(cfg)
	s.bumpMutation()
	level.Debug(s.logger).Log("msg", "skeleton cleared", "skeleton_id", s.id)
}

// Reserve pre-grows all three tiers' capacities so a bulk-writing client
// pays no growth inside its hot loop.
func (s *Skeleton) Reserve(atomCapacity, linkCapacity, faceCapacity int) error {
	if err := s.atoms.grow(atomCapacity); err != nil {
		return err
	}
	if err := s.links.grow(linkCapacity); err != nil {
		return err
	}
	return s.faces.grow(faceCapacity)
}

func (s *Skeleton) bumpMutation() {
	atomic.AddUint64(&s.mutationGen, 1)
}

func (s *Skeleton) mutationSnapshot() uint64 {
	return atomic.LoadUint64(&s.mutationGen)
}

// RemoveAtom, RemoveLink, and RemoveFace delete whatever element the handle
// refers to, cascading to dependent links/faces as needed. Each is a silent
// no-op if the handle does not resolve to a live element of its tier.
func (s *Skeleton) RemoveAtom(h AtomHandle) { _ = s.removeAtomTopology(h); s.bumpMutation() }
func (s *Skeleton) RemoveLink(h LinkHandle) { _ = s.removeLinkTopology(h); s.bumpMutation() }
func (s *Skeleton) RemoveFace(h FaceHandle) { _ = s.removeFaceTopology(h); s.bumpMutation() }
