package heap

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/rhi/engine/math"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Segment layout, little endian, every segment starts 8-byte aligned:
//
//	+0  size       uint32  bytes of the whole segment, padding included
//	+4  startSlot  uint32
//	+8  numViews   uint32
//	+12 offsetEnd0 uint32  end of the handle array (shapes 2 and 3, else 0)
//	+16 offsetEnd1 uint32  end of the first scalar array (shape 3 only)
//	+20 reserved   uint32  (shape 3 only)
//	    handles    [numViews]uint64
//	    scalars0   [numViews]uint32  (shapes 2 and 3)
//	    scalars1   [numViews]uint32  (shape 3)
//
// offsetEnd0 and offsetEnd1 are relative to the segment start.
const (
	handleSize    = 8
	scalarSize    = 4
	segmentAlign  = 8
	segmentHeader = 16
	// shape 3 carries a second end offset plus padding.
	segmentHeaderExt = 24
)

// segmentShape is the number of parallel arrays a segment carries.
type segmentShape uint8

const (
	shapeViews         segmentShape = 1 // constant buffers, samplers, SRVs
	shapeViewsScalar   segmentShape = 2 // UAVs + initial counts
	shapeViewsScalars2 segmentShape = 3 // cbuffer ranges + first/num constants
)

func (s segmentShape) headerSize() int {
	if s == shapeViewsScalars2 {
		return segmentHeaderExt
	}
	return segmentHeader
}

func (s segmentShape) size(numViews int) int {
	n := s.headerSize() + numViews*handleSize + int(s-1)*numViews*scalarSize
	return int(math.AlignUp(uint32(n), segmentAlign))
}

// packBuffer is an append-only cursor over the heap's byte storage.
type packBuffer struct {
	data []byte
}

func (p *packBuffer) len() int {
	return len(p.data)
}

// grow appends n zeroed bytes and returns the byte range they occupy.
func (p *packBuffer) grow(n int) []byte {
	old := len(p.data)
	if need := old + n; need > cap(p.data) {
		newCap := cap(p.data) * 2
		if newCap < need {
			newCap = need
		}
		tmp := make([]byte, old, newCap)
		copy(tmp, p.data)
		p.data = tmp
	}
	p.data = p.data[:old+n]
	out := p.data[old:]
	clear(out)
	return out
}

// writeSegment appends one segment for a run of contiguous bindings.
func (p *packBuffer) writeSegment(shape segmentShape, run []resourceBinding) {
	n := len(run)
	size := shape.size(n)
	seg := p.grow(size)

	le := binary.LittleEndian
	le.PutUint32(seg[0:], uint32(size))
	le.PutUint32(seg[4:], run[0].slot)
	le.PutUint32(seg[8:], uint32(n))

	off := shape.headerSize()
	for _, rb := range run {
		le.PutUint64(seg[off:], uint64(rb.handle))
		off += handleSize
	}
	for k := 0; k < int(shape)-1; k++ {
		// Record where the previous array ended.
		le.PutUint32(seg[12+4*k:], uint32(off))
		for _, rb := range run {
			le.PutUint32(seg[off:], rb.scalars[k])
			off += scalarSize
		}
	}
}

// buildSegments splits sorted bindings into runs of consecutive slots and
// writes one segment per run. It returns the number of segments written.
func buildSegments(p *packBuffer, shape segmentShape, sorted []resourceBinding) int {
	if len(sorted) == 0 {
		return 0
	}
	count := 0
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i].slot == sorted[i-1].slot+1 {
			continue
		}
		p.writeSegment(shape, sorted[start:i])
		count++
		start = i
	}
	return count
}

// segmentView is a decoded segment. The slices alias scratch storage of
// the reader and are overwritten by the next read.
type segmentView struct {
	size      int
	startSlot uint32
	handles   []metadata.Handle
	scalars0  []uint32
	scalars1  []uint32
}

// segmentReader decodes segments back out of a packed chunk.
type segmentReader struct {
	data     []byte
	pos      int
	handles  []metadata.Handle
	scalars0 []uint32
	scalars1 []uint32
}

func (r *segmentReader) reset(data []byte) {
	r.data = data
	r.pos = 0
}

func (r *segmentReader) next(shape segmentShape) segmentView {
	le := binary.LittleEndian
	seg := r.data[r.pos:]
	size := int(le.Uint32(seg[0:]))
	n := int(le.Uint32(seg[8:]))
	if size != shape.size(n) || size > len(seg) {
		panic(fmt.Sprintf("heap: corrupt segment at offset %d (size %d, %d views, shape %d)", r.pos, size, n, shape))
	}

	sv := segmentView{
		size:      size,
		startSlot: le.Uint32(seg[4:]),
	}

	r.handles = r.handles[:0]
	off := shape.headerSize()
	for i := 0; i < n; i++ {
		r.handles = append(r.handles, metadata.Handle(le.Uint64(seg[off:])))
		off += handleSize
	}
	sv.handles = r.handles

	if shape >= shapeViewsScalar {
		r.scalars0 = readScalars(r.scalars0[:0], seg[le.Uint32(seg[12:]):], n)
		sv.scalars0 = r.scalars0
	}
	if shape == shapeViewsScalars2 {
		r.scalars1 = readScalars(r.scalars1[:0], seg[le.Uint32(seg[16:]):], n)
		sv.scalars1 = r.scalars1
	}

	r.pos += size
	return sv
}

func readScalars(dst []uint32, src []byte, n int) []uint32 {
	for i := 0; i < n; i++ {
		dst = append(dst, binary.LittleEndian.Uint32(src[i*scalarSize:]))
	}
	return dst
}
