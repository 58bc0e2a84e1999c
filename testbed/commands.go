package testbed

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/rhi/engine/renderer/command"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

func (c SceneCommand) arg(i int) int64 {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return 0
}

func (c SceneCommand) u32(i int) uint32 {
	return uint32(c.arg(i))
}

// recordCommand records one scene command. Missing arguments are zero.
func recordCommand(cb *command.SecondaryCommandBuffer, objs *objects, h *heap.ResourceHeap, cmd SceneCommand) error {
	switch cmd.Op {
	case "SetVertexBuffer":
		buf, err := objs.buffer(cmd.Resource)
		if err != nil {
			return err
		}
		cb.SetVertexBuffer(cmd.u32(0), buf, uint64(cmd.arg(1)))
	case "SetIndexBuffer":
		buf, err := objs.buffer(cmd.Resource)
		if err != nil {
			return err
		}
		cb.SetIndexBuffer(buf, metadata.Format(cmd.u32(0)), uint64(cmd.arg(1)))
	case "SetPipelineState":
		p, ok := objs.pipelines[cmd.Pipeline]
		if !ok {
			return fmt.Errorf("unknown pipeline '%s'", cmd.Pipeline)
		}
		cb.SetPipelineState(p)
	case "SetResourceHeap":
		cb.SetResourceHeap(h, cmd.Set)
	case "SetResource":
		res, ok := objs.resources[cmd.Resource]
		if !ok {
			return fmt.Errorf("unknown resource '%s'", cmd.Resource)
		}
		cb.SetResource(cmd.u32(0), res)
	case "SetBlendFactor":
		var color [4]float32
		copy(color[:], cmd.Floats)
		cb.SetBlendFactor(color)
	case "SetStencilRef":
		cb.SetStencilRef(cmd.u32(0), metadata.StencilFace(cmd.arg(1)))
	case "SetUniforms":
		cb.SetUniformFloats(cmd.u32(0), cmd.Floats)
	case "SetViewports":
		if len(cmd.Floats)%6 != 0 {
			return fmt.Errorf("viewports take 6 floats each, got %d", len(cmd.Floats))
		}
		viewports := make([]metadata.Viewport, 0, len(cmd.Floats)/6)
		for f := cmd.Floats; len(f) > 0; f = f[6:] {
			viewports = append(viewports, metadata.Viewport{X: f[0], Y: f[1], Width: f[2], Height: f[3], MinDepth: f[4], MaxDepth: f[5]})
		}
		cb.SetViewports(viewports)
	case "SetScissors":
		if len(cmd.Args)%4 != 0 {
			return fmt.Errorf("scissors take 4 args each, got %d", len(cmd.Args))
		}
		scissors := make([]metadata.Scissor, 0, len(cmd.Args)/4)
		for a := cmd.Args; len(a) > 0; a = a[4:] {
			scissors = append(scissors, metadata.Scissor{X: int32(a[0]), Y: int32(a[1]), Width: int32(a[2]), Height: int32(a[3])})
		}
		cb.SetScissors(scissors)
	case "Draw":
		cb.Draw(cmd.u32(0), cmd.u32(1))
	case "DrawIndexed":
		cb.DrawIndexed(cmd.u32(0), cmd.u32(1), int32(cmd.arg(2)))
	case "DrawInstanced":
		cb.DrawInstanced(cmd.u32(0), cmd.u32(1), cmd.u32(2), cmd.u32(3))
	case "DrawIndexedInstanced":
		cb.DrawIndexedInstanced(cmd.u32(0), cmd.u32(1), cmd.u32(2), int32(cmd.arg(3)), cmd.u32(4))
	case "DrawInstancedIndirect", "DrawIndexedInstancedIndirect":
		buf, err := objs.buffer(cmd.Resource)
		if err != nil {
			return err
		}
		numCommands := uint32(1)
		if len(cmd.Args) > 1 {
			numCommands = cmd.u32(1)
		}
		if strings.HasPrefix(cmd.Op, "DrawIndexed") {
			cb.DrawIndexedInstancedIndirect(buf, uint64(cmd.arg(0)), numCommands, cmd.u32(2))
		} else {
			cb.DrawInstancedIndirect(buf, uint64(cmd.arg(0)), numCommands, cmd.u32(2))
		}
	case "DrawAuto":
		cb.DrawAuto()
	case "Dispatch":
		cb.Dispatch(cmd.u32(0), cmd.u32(1), cmd.u32(2))
	case "DispatchIndirect":
		buf, err := objs.buffer(cmd.Resource)
		if err != nil {
			return err
		}
		cb.DispatchIndirect(buf, uint64(cmd.arg(0)))
	case "PushDebugGroup":
		cb.PushDebugGroup(cmd.Name)
	case "PopDebugGroup":
		cb.PopDebugGroup()
	default:
		return fmt.Errorf("unknown command")
	}
	return nil
}
