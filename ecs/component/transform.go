package component

import "github.com/jakecoffman/cp"

type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

// Position returns the transform's location as a vector.
func (t *Transform) Position() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

// SetPosition moves the transform to p.
func (t *Transform) SetPosition(p cp.Vector) {
	t.X = p.X
	t.Y = p.Y
}

var TransformComponent = NewComponent[Transform]()
