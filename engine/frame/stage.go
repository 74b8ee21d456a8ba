package frame

import (
	"errors"
	"fmt"
)

// ErrStageOrder is returned when a frame stage is entered out of order.
var ErrStageOrder = errors.New("frame: stage out of order")

// Stage is the position of a frame in the pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageLightUpdate
	StageShadowPass
	StageEnvironmentCapture
	StageFinalPass
	StageComplete
)

var stageNames = [...]string{
	StageIdle:               "Idle",
	StageLightUpdate:        "LightUpdate",
	StageShadowPass:         "ShadowPass",
	StageEnvironmentCapture: "EnvironmentCapture",
	StageFinalPass:          "FinalPass",
	StageComplete:           "Complete",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the stage that must follow s. StageComplete has no successor and returns itself.
func (s Stage) Next() Stage {
	if s >= StageComplete || s < StageIdle {
		return s
	}
	return s + 1
}

// Stages returns the stages a frame passes through after StageIdle, in order.
func Stages() []Stage {
	return []Stage{StageLightUpdate, StageShadowPass, StageEnvironmentCapture, StageFinalPass, StageComplete}
}
