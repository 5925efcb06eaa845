package component

import "github.com/jakecoffman/cp"

// Movement is the last movement request applied to an entity.
type Movement struct {
	Target   cp.Vector
	Velocity cp.Vector
	Speed    float64
	Moving   bool
}

var MovementComponent = NewComponent[Movement]()
