package command

// ObjectRef indexes the object table of the virtual command buffer a
// record was written to.
type ObjectRef uint32

// Command is the fixed-size part of a record. Records with a trailing
// payload store its length in a DataSize field.
type Command interface {
	Opcode() Opcode
	// Size is the encoded size in bytes, payload excluded.
	Size() int
	encode(c *cursor)
	decode(c *cursor)
}

type SetVertexBufferCmd struct {
	Buffer ObjectRef
	Slot   uint32
	Offset uint64
}

func (*SetVertexBufferCmd) Opcode() Opcode { return OpcodeSetVertexBuffer }
func (*SetVertexBufferCmd) Size() int      { return 16 }
func (cmd *SetVertexBufferCmd) encode(c *cursor) {
	c.putU32(uint32(cmd.Buffer))
	c.putU32(cmd.Slot)
	c.putU64(cmd.Offset)
}
func (cmd *SetVertexBufferCmd) decode(c *cursor) {
	cmd.Buffer = ObjectRef(c.u32())
	cmd.Slot = c.u32()
	cmd.Offset = c.u64()
}

type SetIndexBufferCmd struct {
	Buffer ObjectRef
	Format uint32
	Offset uint64
}

func (*SetIndexBufferCmd) Opcode() Opcode { return OpcodeSetIndexBuffer }
func (*SetIndexBufferCmd) Size() int      { return 16 }
func (cmd *SetIndexBufferCmd) encode(c *cursor) {
	c.putU32(uint32(cmd.Buffer))
	c.putU32(cmd.Format)
	c.putU64(cmd.Offset)
}
func (cmd *SetIndexBufferCmd) decode(c *cursor) {
	cmd.Buffer = ObjectRef(c.u32())
	cmd.Format = c.u32()
	cmd.Offset = c.u64()
}

type SetPipelineStateCmd struct {
	Pipeline ObjectRef
}

func (*SetPipelineStateCmd) Opcode() Opcode        { return OpcodeSetPipelineState }
func (*SetPipelineStateCmd) Size() int             { return 4 }
func (cmd *SetPipelineStateCmd) encode(c *cursor) { c.putU32(uint32(cmd.Pipeline)) }
func (cmd *SetPipelineStateCmd) decode(c *cursor) { cmd.Pipeline = ObjectRef(c.u32()) }

type SetResourceHeapCmd struct {
	Heap          ObjectRef
	DescriptorSet uint32
}

func (*SetResourceHeapCmd) Opcode() Opcode { return OpcodeSetResourceHeap }
func (*SetResourceHeapCmd) Size() int      { return 8 }
func (cmd *SetResourceHeapCmd) encode(c *cursor) {
	c.putU32(uint32(cmd.Heap))
	c.putU32(cmd.DescriptorSet)
}
func (cmd *SetResourceHeapCmd) decode(c *cursor) {
	cmd.Heap = ObjectRef(c.u32())
	cmd.DescriptorSet = c.u32()
}

type SetResourceCmd struct {
	Descriptor uint32
	Resource   ObjectRef
}

func (*SetResourceCmd) Opcode() Opcode { return OpcodeSetResource }
func (*SetResourceCmd) Size() int      { return 8 }
func (cmd *SetResourceCmd) encode(c *cursor) {
	c.putU32(cmd.Descriptor)
	c.putU32(uint32(cmd.Resource))
}
func (cmd *SetResourceCmd) decode(c *cursor) {
	cmd.Descriptor = c.u32()
	cmd.Resource = ObjectRef(c.u32())
}

type SetBlendFactorCmd struct {
	Color [4]float32
}

func (*SetBlendFactorCmd) Opcode() Opcode { return OpcodeSetBlendFactor }
func (*SetBlendFactorCmd) Size() int      { return 16 }
func (cmd *SetBlendFactorCmd) encode(c *cursor) {
	for _, v := range cmd.Color {
		c.putF32(v)
	}
}
func (cmd *SetBlendFactorCmd) decode(c *cursor) {
	for i := range cmd.Color {
		cmd.Color[i] = c.f32()
	}
}

type SetStencilRefCmd struct {
	Reference uint32
	Face      uint32
}

func (*SetStencilRefCmd) Opcode() Opcode { return OpcodeSetStencilRef }
func (*SetStencilRefCmd) Size() int      { return 8 }
func (cmd *SetStencilRefCmd) encode(c *cursor) {
	c.putU32(cmd.Reference)
	c.putU32(cmd.Face)
}
func (cmd *SetStencilRefCmd) decode(c *cursor) {
	cmd.Reference = c.u32()
	cmd.Face = c.u32()
}

// SetUniformsCmd is followed by DataSize bytes of uniform data.
type SetUniformsCmd struct {
	First    uint32
	DataSize uint32
}

func (*SetUniformsCmd) Opcode() Opcode { return OpcodeSetUniforms }
func (*SetUniformsCmd) Size() int      { return 8 }
func (cmd *SetUniformsCmd) encode(c *cursor) {
	c.putU32(cmd.First)
	c.putU32(cmd.DataSize)
}
func (cmd *SetUniformsCmd) decode(c *cursor) {
	cmd.First = c.u32()
	cmd.DataSize = c.u32()
}

// SetViewportsCmd is followed by Count viewports of six float32 each.
type SetViewportsCmd struct {
	Count    uint32
	DataSize uint32
}

const viewportSize = 24

func (*SetViewportsCmd) Opcode() Opcode { return OpcodeSetViewports }
func (*SetViewportsCmd) Size() int      { return 8 }
func (cmd *SetViewportsCmd) encode(c *cursor) {
	c.putU32(cmd.Count)
	c.putU32(cmd.DataSize)
}
func (cmd *SetViewportsCmd) decode(c *cursor) {
	cmd.Count = c.u32()
	cmd.DataSize = c.u32()
}

// SetScissorsCmd is followed by Count scissors of four int32 each.
type SetScissorsCmd struct {
	Count    uint32
	DataSize uint32
}

const scissorSize = 16

func (*SetScissorsCmd) Opcode() Opcode { return OpcodeSetScissors }
func (*SetScissorsCmd) Size() int      { return 8 }
func (cmd *SetScissorsCmd) encode(c *cursor) {
	c.putU32(cmd.Count)
	c.putU32(cmd.DataSize)
}
func (cmd *SetScissorsCmd) decode(c *cursor) {
	cmd.Count = c.u32()
	cmd.DataSize = c.u32()
}

type DrawCmd struct {
	NumVertices uint32
	FirstVertex uint32
}

func (*DrawCmd) Opcode() Opcode { return OpcodeDraw }
func (*DrawCmd) Size() int      { return 8 }
func (cmd *DrawCmd) encode(c *cursor) {
	c.putU32(cmd.NumVertices)
	c.putU32(cmd.FirstVertex)
}
func (cmd *DrawCmd) decode(c *cursor) {
	cmd.NumVertices = c.u32()
	cmd.FirstVertex = c.u32()
}

type DrawIndexedCmd struct {
	NumIndices   uint32
	FirstIndex   uint32
	VertexOffset int32
}

func (*DrawIndexedCmd) Opcode() Opcode { return OpcodeDrawIndexed }
func (*DrawIndexedCmd) Size() int      { return 12 }
func (cmd *DrawIndexedCmd) encode(c *cursor) {
	c.putU32(cmd.NumIndices)
	c.putU32(cmd.FirstIndex)
	c.putI32(cmd.VertexOffset)
}
func (cmd *DrawIndexedCmd) decode(c *cursor) {
	cmd.NumIndices = c.u32()
	cmd.FirstIndex = c.u32()
	cmd.VertexOffset = c.i32()
}

type DrawInstancedCmd struct {
	NumVertices   uint32
	FirstVertex   uint32
	NumInstances  uint32
	FirstInstance uint32
}

func (*DrawInstancedCmd) Opcode() Opcode { return OpcodeDrawInstanced }
func (*DrawInstancedCmd) Size() int      { return 16 }
func (cmd *DrawInstancedCmd) encode(c *cursor) {
	c.putU32(cmd.NumVertices)
	c.putU32(cmd.FirstVertex)
	c.putU32(cmd.NumInstances)
	c.putU32(cmd.FirstInstance)
}
func (cmd *DrawInstancedCmd) decode(c *cursor) {
	cmd.NumVertices = c.u32()
	cmd.FirstVertex = c.u32()
	cmd.NumInstances = c.u32()
	cmd.FirstInstance = c.u32()
}

type DrawIndexedInstancedCmd struct {
	NumIndices    uint32
	NumInstances  uint32
	FirstIndex    uint32
	VertexOffset  int32
	FirstInstance uint32
}

func (*DrawIndexedInstancedCmd) Opcode() Opcode { return OpcodeDrawIndexedInstanced }
func (*DrawIndexedInstancedCmd) Size() int      { return 20 }
func (cmd *DrawIndexedInstancedCmd) encode(c *cursor) {
	c.putU32(cmd.NumIndices)
	c.putU32(cmd.NumInstances)
	c.putU32(cmd.FirstIndex)
	c.putI32(cmd.VertexOffset)
	c.putU32(cmd.FirstInstance)
}
func (cmd *DrawIndexedInstancedCmd) decode(c *cursor) {
	cmd.NumIndices = c.u32()
	cmd.NumInstances = c.u32()
	cmd.FirstIndex = c.u32()
	cmd.VertexOffset = c.i32()
	cmd.FirstInstance = c.u32()
}

// DrawIndirectCmd serves the four indirect draw opcodes. The single
// command variants do not encode NumCommands and Stride.
type DrawIndirectCmd struct {
	Op          Opcode
	Buffer      ObjectRef
	Offset      uint64
	NumCommands uint32
	Stride      uint32
}

func (cmd *DrawIndirectCmd) Opcode() Opcode { return cmd.Op }

func (cmd *DrawIndirectCmd) multi() bool {
	return cmd.Op == OpcodeDrawInstancedIndirectN || cmd.Op == OpcodeDrawIndexedInstancedIndirectN
}

func (cmd *DrawIndirectCmd) Size() int {
	if cmd.multi() {
		return 20
	}
	return 12
}

func (cmd *DrawIndirectCmd) encode(c *cursor) {
	c.putU32(uint32(cmd.Buffer))
	c.putU64(cmd.Offset)
	if cmd.multi() {
		c.putU32(cmd.NumCommands)
		c.putU32(cmd.Stride)
	}
}

func (cmd *DrawIndirectCmd) decode(c *cursor) {
	cmd.Buffer = ObjectRef(c.u32())
	cmd.Offset = c.u64()
	if cmd.multi() {
		cmd.NumCommands = c.u32()
		cmd.Stride = c.u32()
	} else {
		cmd.NumCommands = 1
		cmd.Stride = 0
	}
}

type DispatchCmd struct {
	NumWorkGroups [3]uint32
}

func (*DispatchCmd) Opcode() Opcode { return OpcodeDispatch }
func (*DispatchCmd) Size() int      { return 12 }
func (cmd *DispatchCmd) encode(c *cursor) {
	for _, v := range cmd.NumWorkGroups {
		c.putU32(v)
	}
}
func (cmd *DispatchCmd) decode(c *cursor) {
	for i := range cmd.NumWorkGroups {
		cmd.NumWorkGroups[i] = c.u32()
	}
}

type DispatchIndirectCmd struct {
	Buffer ObjectRef
	Offset uint64
}

func (*DispatchIndirectCmd) Opcode() Opcode { return OpcodeDispatchIndirect }
func (*DispatchIndirectCmd) Size() int      { return 12 }
func (cmd *DispatchIndirectCmd) encode(c *cursor) {
	c.putU32(uint32(cmd.Buffer))
	c.putU64(cmd.Offset)
}
func (cmd *DispatchIndirectCmd) decode(c *cursor) {
	cmd.Buffer = ObjectRef(c.u32())
	cmd.Offset = c.u64()
}

// PushDebugGroupCmd is followed by DataSize bytes of group name.
type PushDebugGroupCmd struct {
	DataSize uint32
}

func (*PushDebugGroupCmd) Opcode() Opcode        { return OpcodePushDebugGroup }
func (*PushDebugGroupCmd) Size() int             { return 4 }
func (cmd *PushDebugGroupCmd) encode(c *cursor) { c.putU32(cmd.DataSize) }
func (cmd *PushDebugGroupCmd) decode(c *cursor) { cmd.DataSize = c.u32() }
