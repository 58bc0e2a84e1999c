package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

func bindingsAt(slots ...uint32) []resourceBinding {
	out := make([]resourceBinding, len(slots))
	for i, slot := range slots {
		out[i] = resourceBinding{
			slot:    slot,
			handle:  metadata.Handle(100 + slot),
			scalars: [2]uint32{slot * 2, slot * 3},
		}
	}
	return out
}

func TestBuildSegmentsMergesContiguousSlots(t *testing.T) {
	tests := []struct {
		name  string
		slots []uint32
		want  [][2]uint32 // start slot, count
	}{
		{"empty", nil, nil},
		{"single", []uint32{5}, [][2]uint32{{5, 1}}},
		{"one run", []uint32{0, 1, 2, 3}, [][2]uint32{{0, 4}}},
		{"three runs", []uint32{2, 3, 4, 7, 8, 10}, [][2]uint32{{2, 3}, {7, 2}, {10, 1}}},
		{"all gaps", []uint32{1, 3, 5}, [][2]uint32{{1, 1}, {3, 1}, {5, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p packBuffer
			n := buildSegments(&p, shapeViews, bindingsAt(tt.slots...))
			require.Equal(t, len(tt.want), n)

			var r segmentReader
			r.reset(p.data)
			for _, want := range tt.want {
				sv := r.next(shapeViews)
				assert.Equal(t, want[0], sv.startSlot)
				assert.Len(t, sv.handles, int(want[1]))
			}
			assert.Equal(t, len(p.data), r.pos)
		})
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	for _, shape := range []segmentShape{shapeViews, shapeViewsScalar, shapeViewsScalars2} {
		var p packBuffer
		in := bindingsAt(4, 5, 6)
		require.Equal(t, 1, buildSegments(&p, shape, in))
		require.Equal(t, shape.size(3), len(p.data))
		require.Zero(t, len(p.data)%segmentAlign)

		var r segmentReader
		r.reset(p.data)
		sv := r.next(shape)
		assert.Equal(t, uint32(4), sv.startSlot)
		assert.Equal(t, []metadata.Handle{104, 105, 106}, sv.handles)
		switch shape {
		case shapeViews:
			assert.Nil(t, sv.scalars0)
			assert.Nil(t, sv.scalars1)
		case shapeViewsScalar:
			assert.Equal(t, []uint32{8, 10, 12}, sv.scalars0)
			assert.Nil(t, sv.scalars1)
		case shapeViewsScalars2:
			assert.Equal(t, []uint32{8, 10, 12}, sv.scalars0)
			assert.Equal(t, []uint32{12, 15, 18}, sv.scalars1)
		}
	}
}

func TestSegmentSizes(t *testing.T) {
	// header + handles, rounded to 8
	assert.Equal(t, 16+8, shapeViews.size(1))
	assert.Equal(t, 16+8+8, shapeViewsScalar.size(1))
	assert.Equal(t, 16+16+8, shapeViewsScalar.size(2))
	assert.Equal(t, 24+24+24, shapeViewsScalars2.size(3))
}

func TestSegmentReaderPanicsOnShapeMismatch(t *testing.T) {
	var p packBuffer
	buildSegments(&p, shapeViews, bindingsAt(1, 2))

	var r segmentReader
	r.reset(p.data)
	assert.Panics(t, func() { r.next(shapeViewsScalars2) })
}

func TestStageSegmentationCounts(t *testing.T) {
	var s stageSegmentation
	require.NoError(t, s.setCount(kindSampler, 3))
	require.NoError(t, s.setCount(kindUnorderedAccess, maxSegmentCount))
	require.NoError(t, s.setCount(kindSampler, 2))
	assert.Equal(t, 2, s.count(kindSampler))
	assert.Equal(t, maxSegmentCount, s.count(kindUnorderedAccess))
	assert.Zero(t, s.count(kindConstantBuffer))
	assert.False(t, s.hasResources())

	assert.Error(t, s.setCount(kindConstantBuffer, maxSegmentCount+1))

	var seg segmentation
	seg[StageFragment] = s
	seg.finalize()
	assert.True(t, seg[StageFragment].hasResources())
	assert.False(t, seg[StageVertex].hasResources())
	assert.True(t, seg.hasGraphicsResources())
	assert.False(t, seg.hasComputeResources())
}
