package control

import (
	"fmt"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

// Hold issues the same [v, w] command every step. With a zero command it is
// the open-loop baseline used to compare against the goal controller.
type Hold struct {
	v, w float64
}

func NewHold(v, w float64) *Hold {
	return &Hold{v: v, w: w}
}

func (h *Hold) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{h.v, h.w}
}

func (h *Hold) GetParams() map[string]float64 {
	return map[string]float64{"v": h.v, "w": h.w}
}

func (h *Hold) SetParam(name string, value float64) error {
	switch name {
	case "v":
		h.v = value
	case "w":
		h.w = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}
