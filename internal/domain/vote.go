package domain

// Ballot is one recorded accusation
type Ballot struct {
	VoterID  PlayerID `json:"voterId"`
	TargetID PlayerID `json:"targetId"`
}

// VoteLedger holds the votes of the current round. The tally and the voted
// set are derived from the voter -> target edges, so they cannot drift apart.
type VoteLedger struct {
	votes map[PlayerID]PlayerID
}

// NewVoteLedger creates an empty ledger
func NewVoteLedger() *VoteLedger {
	return &VoteLedger{votes: make(map[PlayerID]PlayerID)}
}

// Record stores the voter's choice; a voter is recorded at most once
func (l *VoteLedger) Record(voterID, targetID PlayerID) error {
	if _, ok := l.votes[voterID]; ok {
		return ErrAlreadyVoted
	}
	l.votes[voterID] = targetID
	return nil
}

// HasVoted checks if a player has already voted this round
func (l *VoteLedger) HasVoted(playerID PlayerID) bool {
	_, ok := l.votes[playerID]
	return ok
}

// TargetOf returns the target chosen by the voter
func (l *VoteLedger) TargetOf(voterID PlayerID) (PlayerID, bool) {
	target, ok := l.votes[voterID]
	return target, ok
}

// VotedCount returns the number of players who have voted
func (l *VoteLedger) VotedCount() int {
	return len(l.votes)
}

// Tally counts the votes received by every roster member, zeros included
func (l *VoteLedger) Tally(roster Roster) map[PlayerID]int {
	tally := make(map[PlayerID]int, len(roster))
	for _, id := range roster {
		tally[id] = 0
	}
	for _, target := range l.votes {
		tally[target]++
	}
	return tally
}

// Result returns the highest vote count and every target reaching it, in
// roster order. With no votes cast the result is (0, nil).
func (l *VoteLedger) Result(roster Roster) (int, []PlayerID) {
	if len(l.votes) == 0 {
		return 0, nil
	}

	tally := l.Tally(roster)
	maxVotes := 0
	for _, count := range tally {
		if count > maxVotes {
			maxVotes = count
		}
	}

	winners := make([]PlayerID, 0, 1)
	for _, id := range roster {
		if tally[id] == maxVotes {
			winners = append(winners, id)
		}
	}
	return maxVotes, winners
}

// Ballots returns the recorded votes in voter roster order
func (l *VoteLedger) Ballots(roster Roster) []Ballot {
	ballots := make([]Ballot, 0, len(l.votes))
	for _, id := range roster {
		if target, ok := l.votes[id]; ok {
			ballots = append(ballots, Ballot{VoterID: id, TargetID: target})
		}
	}
	return ballots
}

// Reset clears all votes
func (l *VoteLedger) Reset() {
	l.votes = make(map[PlayerID]PlayerID)
}
