package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for an agent. Body and Shape are
// created lazily by the physics system.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
