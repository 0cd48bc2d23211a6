package epsilon

import "testing"

func schedule110k() []Transition {
	return []Transition{{At: 110000, Eps: 0.02}}
}

func TestEarlyTransitionFiresAtEarliestWhenCriteriaStronglyMet(t *testing.T) {
	s := NewScheduler(0.05, schedule110k(), Ratios{Early: 0.1, Extend: 0.2, Force: 0.3}, 35, 10)

	// Below earliest: must not fire yet.
	if eps := s.Update(98000, Observation{IPS: 45, GrowthPer1000: 20}); eps != 0.05 {
		t.Errorf("eps = %v, want unchanged 0.05 before earliest", eps)
	}
	// At earliest (99000) with strong criteria: fires.
	eps := s.Update(99000, Observation{IPS: 45, GrowthPer1000: 20})
	if eps != 0.02 {
		t.Errorf("eps = %v, want 0.02 once fired at/after earliest", eps)
	}
}

func TestForceFiresRegardlessOfCriteria(t *testing.T) {
	s := NewScheduler(0.05, schedule110k(), Ratios{Early: 0.1, Extend: 0.2, Force: 0.3}, 35, 10)

	// Persistently low IPS: inside the on-time window (before latest =
	// 132000) the transition waits.
	if eps := s.Update(120000, Observation{IPS: 10, GrowthPer1000: 1}); eps != 0.05 {
		t.Errorf("eps = %v, want unchanged before force deadline", eps)
	}
	// force = 110000 * 1.3 = 143000
	eps := s.Update(143000, Observation{IPS: 10, GrowthPer1000: 1})
	if eps != 0.02 {
		t.Errorf("eps = %v, want 0.02 forced at 143000", eps)
	}
}

func TestOnTimeTransitionRequiresCriteria(t *testing.T) {
	s := NewScheduler(0.05, schedule110k(), Ratios{Early: 0.1, Extend: 0.2, Force: 0.3}, 35, 10)
	// At T with criteria unmet: waits.
	if eps := s.Update(110000, Observation{IPS: 5, GrowthPer1000: 0}); eps != 0.05 {
		t.Errorf("eps = %v, want unchanged when criteria unmet at T", eps)
	}
	// At T with criteria met: fires.
	if eps := s.Update(110000, Observation{IPS: 40, GrowthPer1000: 15}); eps != 0.02 {
		t.Errorf("eps = %v, want 0.02 once criteria met at T", eps)
	}
}

func TestPendingTransitionsShrinksAfterFiring(t *testing.T) {
	s := NewScheduler(0.05, schedule110k(), DefaultRatios(), 35, 10)
	if len(s.PendingTransitions()) != 1 {
		t.Fatal("expected one pending transition initially")
	}
	s.Update(200000, Observation{IPS: 100, GrowthPer1000: 100})
	if len(s.PendingTransitions()) != 0 {
		t.Error("expected no pending transitions after forced firing")
	}
}
