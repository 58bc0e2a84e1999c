package math

import "golang.org/x/exp/constraints"

// AlignUp rounds `v` up to the next multiple of `alignment`, which must
// be a power of two.
func AlignUp[T constraints.Unsigned](v, alignment T) T {
	return (v + alignment - 1) &^ (alignment - 1)
}
