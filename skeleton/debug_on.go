//go:build skeleton_debug

package skeleton

import "fmt"

// checkNoMutation panics if the skeleton was structurally mutated since
// snapshot was taken. Only compiled in under the skeleton_debug build tag;
// release builds compile the check out entirely.
func checkNoMutation(s *Skeleton, snapshot uint64) {
	if s.mutationSnapshot() != snapshot {
		panic(fmt.Sprintf("skeleton %s: structural mutation detected during a parallel process_*/remove_* pass", s.id))
	}
}
