package component

// RepulsionLayer lets agents opt in or out of separation by group. Two
// agents push apart when each one's category intersects the other's mask.
type RepulsionLayer struct {
	// Category is this agent's bitmask. Zero is treated as 1.
	Category uint32 `yaml:"category,omitempty"`
	// Mask selects the categories this agent repels. Zero means all.
	Mask uint32 `yaml:"mask,omitempty"`
}

// Repels reports whether r and other push each other apart.
func (r *RepulsionLayer) Repels(other *RepulsionLayer) bool {
	catA, maskA := r.resolved()
	catB, maskB := other.resolved()
	return catA&maskB != 0 && catB&maskA != 0
}

func (r *RepulsionLayer) resolved() (category, mask uint32) {
	category, mask = 1, ^uint32(0)
	if r == nil {
		return category, mask
	}
	if r.Category != 0 {
		category = r.Category
	}
	if r.Mask != 0 {
		mask = r.Mask
	}
	return category, mask
}

var RepulsionLayerComponent = NewComponent[RepulsionLayer]()
