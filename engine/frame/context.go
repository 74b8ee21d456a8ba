package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// Context is the per-frame state owned by the orchestrator. It is advanced once per frame by
// Begin and moved through the stages by Advance; nothing else mutates it.
type Context struct {
	// Index counts frames from 0, including frames skipped before any pass ran.
	Index uint64
	// Captures counts completed environment captures. Capture n writes the probe cubemap
	// Write(n), so a skipped frame does not disturb the ping-pong order.
	Captures uint64
	// Delta is the frame time in seconds.
	Delta float32
	// Elapsed is the light animation clock after this frame's update.
	Elapsed float32

	LightPosition common.Vec3
	WorldToShadow common.Mat4

	stage   Stage
	started bool
}

// Stage returns the stage the frame is currently in.
func (c *Context) Stage() Stage {
	return c.stage
}

// Begin starts the next frame. The previous frame must have completed.
//
// Parameters:
//   - deltaSeconds: the frame time in seconds
//
// Returns:
//   - error: ErrStageOrder if the previous frame did not reach StageComplete
func (c *Context) Begin(deltaSeconds float32) error {
	switch {
	case !c.started && c.stage == StageIdle:
		c.started = true
	case c.stage == StageComplete:
		c.Index++
		c.stage = StageIdle
	default:
		return fmt.Errorf("%w: frame %d began while in %s", ErrStageOrder, c.Index, c.stage)
	}
	c.Delta = deltaSeconds
	return nil
}

// Advance moves the frame into stage to, which must be the successor of the current stage.
//
// Parameters:
//   - to: the stage being entered
//
// Returns:
//   - error: ErrStageOrder on any other transition
func (c *Context) Advance(to Stage) error {
	if c.stage == StageComplete || c.stage.Next() != to {
		return fmt.Errorf("%w: %s -> %s in frame %d", ErrStageOrder, c.stage, to, c.Index)
	}
	c.stage = to
	return nil
}

// Abort returns an unfinished frame to StageComplete so the next frame can begin. The
// orchestrator calls it when a pass fails.
func (c *Context) Abort() {
	c.stage = StageComplete
}
