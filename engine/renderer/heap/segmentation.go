package heap

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/core"
)

// segmentKind is the native binding call a segment feeds. Kinds are
// written and replayed in this order within a stage.
type segmentKind uint8

const (
	kindConstantBufferRange segmentKind = iota
	kindConstantBuffer
	kindSampler
	kindShaderResource
	kindUnorderedAccess

	numSegmentKinds = 5
)

var segmentKindNames = [numSegmentKinds]string{"cbuffer-range", "cbuffer", "sampler", "srv", "uav"}

func (k segmentKind) String() string {
	return segmentKindNames[k]
}

func (k segmentKind) shape() segmentShape {
	switch k {
	case kindConstantBufferRange:
		return shapeViewsScalars2
	case kindUnorderedAccess:
		return shapeViewsScalar
	default:
		return shapeViews
	}
}

const (
	segmentCountBits = 6
	segmentCountMask = 1<<segmentCountBits - 1
	maxSegmentCount  = segmentCountMask
	hasResourcesBit  = 1 << (segmentCountBits * numSegmentKinds)
)

// stageSegmentation packs the segment count of every kind of one stage
// into six bits each, plus a "stage has resources" bit.
type stageSegmentation uint32

func (s stageSegmentation) count(k segmentKind) int {
	return int(s>>(uint(k)*segmentCountBits)) & segmentCountMask
}

func (s *stageSegmentation) setCount(k segmentKind, n int) error {
	if n > maxSegmentCount {
		return fmt.Errorf("%w: %d %s segments (max %d)", core.ErrTooManySegments, n, k, maxSegmentCount)
	}
	shift := uint(k) * segmentCountBits
	*s = *s&^(segmentCountMask<<shift) | stageSegmentation(n)<<shift
	return nil
}

func (s stageSegmentation) hasResources() bool {
	return s&hasResourcesBit != 0
}

// total returns the number of segments over all kinds.
func (s stageSegmentation) total() int {
	n := 0
	for k := segmentKind(0); k < numSegmentKinds; k++ {
		n += s.count(k)
	}
	return n
}

// segmentation is the per-heap header describing how every chunk of the
// packed buffer is laid out.
type segmentation [numShaderStages]stageSegmentation

func (s *segmentation) reset() {
	*s = segmentation{}
}

// finalize derives the "has resources" flags from the counts.
func (s *segmentation) finalize() {
	for i := range s {
		if s[i].total() > 0 {
			s[i] |= hasResourcesBit
		} else {
			s[i] &^= hasResourcesBit
		}
	}
}

func (s *segmentation) hasGraphicsResources() bool {
	for i := 0; i < numGraphicsStages; i++ {
		if s[i].hasResources() {
			return true
		}
	}
	return false
}

func (s *segmentation) hasComputeResources() bool {
	return s[StageCompute].hasResources()
}

// hasRanges reports whether any stage carries constant buffer ranges.
func (s *segmentation) hasRanges() bool {
	for i := range s {
		if s[i].count(kindConstantBufferRange) > 0 {
			return true
		}
	}
	return false
}
