package command

import "fmt"

// Opcode tags one record of a virtual command buffer. Zero is never a
// valid opcode so that a walk running into zeroed memory is detected.
type Opcode uint8

const (
	OpcodeSetVertexBuffer Opcode = iota + 1
	OpcodeSetIndexBuffer
	OpcodeSetPipelineState
	OpcodeSetResourceHeap
	OpcodeSetResource
	OpcodeSetBlendFactor
	OpcodeSetStencilRef
	OpcodeSetUniforms
	OpcodeSetViewports
	OpcodeSetScissors
	OpcodeDraw
	OpcodeDrawIndexed
	OpcodeDrawInstanced
	OpcodeDrawIndexedInstanced
	OpcodeDrawInstancedIndirect
	OpcodeDrawInstancedIndirectN
	OpcodeDrawIndexedInstancedIndirect
	OpcodeDrawIndexedInstancedIndirectN
	OpcodeDrawAuto
	OpcodeDispatch
	OpcodeDispatchIndirect
	OpcodePushDebugGroup
	OpcodePopDebugGroup

	opcodeEnd = iota + 1
)

var opcodeNames = [...]string{
	OpcodeSetVertexBuffer:               "SetVertexBuffer",
	OpcodeSetIndexBuffer:                "SetIndexBuffer",
	OpcodeSetPipelineState:              "SetPipelineState",
	OpcodeSetResourceHeap:               "SetResourceHeap",
	OpcodeSetResource:                   "SetResource",
	OpcodeSetBlendFactor:                "SetBlendFactor",
	OpcodeSetStencilRef:                 "SetStencilRef",
	OpcodeSetUniforms:                   "SetUniforms",
	OpcodeSetViewports:                  "SetViewports",
	OpcodeSetScissors:                   "SetScissors",
	OpcodeDraw:                          "Draw",
	OpcodeDrawIndexed:                   "DrawIndexed",
	OpcodeDrawInstanced:                 "DrawInstanced",
	OpcodeDrawIndexedInstanced:          "DrawIndexedInstanced",
	OpcodeDrawInstancedIndirect:         "DrawInstancedIndirect",
	OpcodeDrawInstancedIndirectN:        "DrawInstancedIndirectN",
	OpcodeDrawIndexedInstancedIndirect:  "DrawIndexedInstancedIndirect",
	OpcodeDrawIndexedInstancedIndirectN: "DrawIndexedInstancedIndirectN",
	OpcodeDrawAuto:                      "DrawAuto",
	OpcodeDispatch:                      "Dispatch",
	OpcodeDispatchIndirect:              "DispatchIndirect",
	OpcodePushDebugGroup:                "PushDebugGroup",
	OpcodePopDebugGroup:                 "PopDebugGroup",
}

func (op Opcode) String() string {
	if op > 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// Valid reports whether op is one of the defined opcodes.
func (op Opcode) Valid() bool {
	return op > 0 && op < opcodeEnd
}
