package ecs

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order once per tick.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update clears the previous tick's events, runs every system and advances
// the frame counter. Events pushed during the tick stay readable until the
// next Update.
func (s *Scheduler) Update(w *World) {
	if w == nil {
		return
	}
	w.beginTick()
	for _, system := range s.systems {
		system.Update(w)
	}
	w.endTick()
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
