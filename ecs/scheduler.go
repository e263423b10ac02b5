package ecs

// Phase orders groups of systems inside one tick.
type Phase int

const (
	PreUpdate Phase = iota
	Update
	PostUpdate

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	default:
		return "unknown"
	}
}

// Scheduler runs systems phase by phase. Deferred commands are applied after
// every system, which is the synchronization point for structural changes.
type Scheduler struct {
	phases [phaseCount][]System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

// Add appends a system to the Update phase.
func (s *Scheduler) Add(system System) {
	s.AddTo(Update, system)
}

// AddTo appends a system to the given phase. Unknown phases fall back to Update.
func (s *Scheduler) AddTo(phase Phase, system System) {
	if system == nil {
		return
	}
	if phase < 0 || phase >= phaseCount {
		phase = Update
	}
	s.phases[phase] = append(s.phases[phase], system)
}

// Update runs one tick.
func (s *Scheduler) Update(w *World) {
	if w == nil {
		return
	}
	w.beginTick()
	for _, systems := range s.phases {
		for _, system := range systems {
			system.Update(w)
			w.ApplyCommands()
		}
	}
}

func (s *Scheduler) Systems() []System {
	var systems []System
	for _, phase := range s.phases {
		systems = append(systems, phase...)
	}
	return systems
}
