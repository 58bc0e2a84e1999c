package command

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/containers"
	"github.com/spaghettifunk/rhi/engine/core"
)

// CommandQueue collects ended command buffers and replays them in
// submission order.
type CommandQueue struct {
	pending *containers.RingQueue[*SecondaryCommandBuffer]
}

func NewCommandQueue(depth int) *CommandQueue {
	return &CommandQueue{
		pending: containers.NewRingQueue[*SecondaryCommandBuffer](depth),
	}
}

func (q *CommandQueue) Enqueue(cb *SecondaryCommandBuffer) error {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING_ENDED {
		return fmt.Errorf("%w: '%s' is %s", core.ErrNotEnded, cb.Name, cb.State)
	}
	if err := q.pending.Enqueue(cb); err != nil {
		return fmt.Errorf("cannot enqueue '%s': %w", cb.Name, err)
	}
	return nil
}

func (q *CommandQueue) Pending() int {
	return q.pending.Len()
}

// Submit executes every queued command buffer on ctx, oldest first. On
// error the failing buffer is dropped and the rest stay queued.
func (q *CommandQueue) Submit(ctx CommandContext) error {
	for !q.pending.IsEmpty() {
		cb, err := q.pending.Dequeue()
		if err != nil {
			return err
		}
		if err := cb.Execute(ctx); err != nil {
			return fmt.Errorf("failed to execute '%s': %w", cb.Name, err)
		}
		cb.State = COMMAND_BUFFER_STATE_SUBMITTED
	}
	return nil
}
