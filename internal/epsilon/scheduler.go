// Package epsilon implements the adaptive exploration-rate scheduler: a
// base iteration->epsilon schedule whose transitions can fire early, on
// time, or be forced late, depending on observed training throughput and
// infoset-discovery rate (spec §4.10).
package epsilon

// Transition is one scheduled base-schedule entry: at iteration At, the
// exploration probability should move to Eps.
type Transition struct {
	At  int
	Eps float64
}

// Ratios are the three schedule-flex knobs applied to every transition's
// target iteration T: earliest = T*(1-Early), latest = T*(1+Extend),
// force = T*(1+Force).
type Ratios struct {
	Early  float64
	Extend float64
	Force  float64
}

// DefaultRatios matches the values used in the spec's adaptive-epsilon
// worked examples.
func DefaultRatios() Ratios {
	return Ratios{Early: 0.1, Extend: 0.2, Force: 0.3}
}

// Scheduler tracks the live exploration probability across a training run,
// advancing through a sorted list of Transitions as observed throughput and
// growth criteria (or the hard force deadline) are met.
type Scheduler struct {
	schedule  []Transition
	ratios    Ratios
	targetIPS float64
	minGrowth float64

	next    int
	current float64
}

// NewScheduler builds a scheduler from a base schedule (must be sorted
// ascending by At; the first transition's Eps is NOT the starting epsilon —
// callers set that via initialEps), the flex ratios, and the criteria
// thresholds observed metrics must clear for an on-time or early
// transition.
func NewScheduler(initialEps float64, schedule []Transition, ratios Ratios, targetIPS, minGrowthPer1000 float64) *Scheduler {
	return &Scheduler{
		schedule:  schedule,
		ratios:    ratios,
		targetIPS: targetIPS,
		minGrowth: minGrowthPer1000,
		current:   initialEps,
	}
}

// Epsilon returns the live exploration probability.
func (s *Scheduler) Epsilon() float64 { return s.current }

// Observation is one sliding-window sample of recent training throughput,
// reported by the caller (typically the coordinator's progress callback).
type Observation struct {
	IPS              float64
	GrowthPer1000    float64
}

// Update advances the schedule given the current iteration and the latest
// observed metrics. Transitions are evaluated in schedule order and every
// one that is due fires in the same call, so a call made after a long gap
// catches up on all of them. Returns the resulting epsilon.
func (s *Scheduler) Update(iteration int, obs Observation) float64 {
	for s.next < len(s.schedule) {
		t := s.schedule[s.next]
		earliest := float64(t.At) * (1 - s.ratios.Early)
		latest := float64(t.At) * (1 + s.ratios.Extend)
		force := float64(t.At) * (1 + s.ratios.Force)
		i := float64(iteration)

		criteriaMet := obs.IPS >= 0.9*s.targetIPS && obs.GrowthPer1000 >= s.minGrowth

		switch {
		case i < earliest:
			return s.current
		case i < float64(t.At):
			if criteriaMet {
				s.fire(t)
				continue
			}
			return s.current
		case i < latest:
			if criteriaMet {
				s.fire(t)
				continue
			}
			return s.current
		case i < force:
			s.fire(t)
			continue
		default:
			// i >= force: transition unconditionally regardless of observed
			// metrics, guaranteeing monotonic schedule progress on slow
			// machines (spec invariant 10).
			s.fire(t)
			continue
		}
	}
	return s.current
}

func (s *Scheduler) fire(t Transition) {
	s.current = t.Eps
	s.next++
}

// PendingTransitions returns the remaining, not-yet-fired transitions.
func (s *Scheduler) PendingTransitions() []Transition {
	return append([]Transition{}, s.schedule[s.next:]...)
}
