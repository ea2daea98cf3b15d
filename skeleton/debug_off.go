//go:build !skeleton_debug

package skeleton

// checkNoMutation is a no-op in release builds; see debug_on.go.
func checkNoMutation(_ *Skeleton, _ uint64) {}
