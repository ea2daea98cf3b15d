package skeleton

// Handle is a generational reference into one tier's packed store: a slot
// index plus the generation counter that was live when the handle was
// issued. A handle resolves only while its slot is allocated and its
// counter matches the slot's current counter; once the slot is reused the
// counter has advanced and every old handle to it is permanently invalid.
type Handle struct {
	slot    uint32
	counter uint32
}

// Per-tier slot space is bounded by a plain constant rather than packed
// bitfields; packing buys nothing here and would only complicate Handle
// equality and map use.
const (
	maxAtomSlot uint32 = 1<<22 - 1
	maxLinkSlot uint32 = 1<<32 - 1
	maxFaceSlot uint32 = 1<<32 - 1
)

// AtomHandle, LinkHandle and FaceHandle wrap Handle with the tier it
// belongs to, so a link handle can never be passed where an atom handle is
// expected. They are plain comparable values, safe as map keys.
type AtomHandle struct{ h Handle }
type LinkHandle struct{ h Handle }
type FaceHandle struct{ h Handle }

// IsZero reports whether the handle is the zero value. create() issues a
// slot's first handle with counter 1, so the zero Handle does not resolve
// unless slot 0's counter has wrapped around to 0.
func (h AtomHandle) IsZero() bool { return h.h == Handle{} }
func (h LinkHandle) IsZero() bool { return h.h == Handle{} }
func (h FaceHandle) IsZero() bool { return h.h == Handle{} }

const (
	slotFree uint8 = iota
	slotAllocated
)

// handleEntry is one row of a tier's handle table. data holds either the
// next free slot index (status == slotFree) or the packed-vector index of
// the live element (status == slotAllocated).
type handleEntry struct {
	status  uint8
	counter uint32
	data    uint32
}
