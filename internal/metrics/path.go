package metrics

import (
	"math"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

// PathLength sums the planar distance between successive positions,
// including the final state handed to Finalize.
type PathLength struct {
	name   string
	length float64
	prev   dynamo.State
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(x dynamo.State, u dynamo.Control, t float64) {
	p.advance(x)
}

func (p *PathLength) Finalize(x dynamo.State, t float64) {
	p.advance(x)
}

func (p *PathLength) advance(x dynamo.State) {
	if len(x) < 2 {
		return
	}
	if p.prev != nil {
		p.length += math.Hypot(x[0]-p.prev[0], x[1]-p.prev[1])
	}
	p.prev = dynamo.State{x[0], x[1]}
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.length = 0
	p.prev = nil
}
