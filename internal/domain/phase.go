package domain

// Phase represents the current phase of a round, derived from the started/revealed flags
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"    // Voting window closed, waiting for the admin
	PhaseVoting   Phase = "VOTING"   // Players may cast their accusation
	PhaseRevealed Phase = "REVEALED" // Results visible to players
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// phaseOf maps the two flags to a phase
func phaseOf(started, revealed bool) Phase {
	switch {
	case started && revealed:
		return PhaseRevealed
	case started:
		return PhaseVoting
	default:
		return PhaseLobby
	}
}

// CanTransitionTo checks if the phase may move forward to target.
// NextNight and StartNewGame return to the lobby from any phase and are not listed.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:  {PhaseVoting},
		PhaseVoting: {PhaseRevealed},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
