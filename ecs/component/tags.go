package component

// TargetTag marks the entity agents chase.
type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()
